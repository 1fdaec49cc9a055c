package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brevosync/internal/events"
	"brevosync/internal/logger"
	"brevosync/internal/models"
)

type CartHandler struct {
	db        *gorm.DB
	publisher EventPublisher
	logger    *logger.Logger
}

func NewCartHandler(db *gorm.DB, publisher EventPublisher, logger *logger.Logger) *CartHandler {
	return &CartHandler{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// AddItem inserts a cart item and emits cart.item_inserted.
func (h *CartHandler) AddItem(c *gin.Context) {
	var request struct {
		CustomerID string  `json:"customer_id" binding:"required"`
		StoreID    int64   `json:"store_id" binding:"required"`
		SKU        string  `json:"sku" binding:"required"`
		Name       string  `json:"name"`
		ImageURL   string  `json:"image_url"`
		Quantity   int     `json:"quantity"`
		Price      float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Quantity <= 0 {
		request.Quantity = 1
	}

	item := models.ShoppingCartItem{
		CustomerID: request.CustomerID,
		StoreID:    request.StoreID,
		SKU:        request.SKU,
		Name:       request.Name,
		ImageURL:   request.ImageURL,
		Quantity:   request.Quantity,
		Price:      request.Price,
	}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add cart item"})
		return
	}

	h.publishCartEvent(c, events.CartItemInserted, item.CustomerID, item.StoreID)
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

// UpdateItem changes the quantity of a cart item and emits
// cart.item_updated. Quantity zero removes the item.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	id := c.Param("id")

	var item models.ShoppingCartItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
		return
	}

	var request struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.Quantity <= 0 {
		if err := h.db.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
			return
		}
	} else {
		item.Quantity = request.Quantity
		if err := h.db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
	}

	h.publishCartEvent(c, events.CartItemUpdated, item.CustomerID, item.StoreID)
	c.JSON(http.StatusOK, gin.H{"data": item})
}

// DeleteItem removes a cart item and emits cart.item_deleted.
func (h *CartHandler) DeleteItem(c *gin.Context) {
	id := c.Param("id")

	var item models.ShoppingCartItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
		return
	}

	if err := h.db.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cart item"})
		return
	}

	h.publishCartEvent(c, events.CartItemDeleted, item.CustomerID, item.StoreID)
	c.JSON(http.StatusNoContent, nil)
}

func (h *CartHandler) publishCartEvent(c *gin.Context, eventType, customerID string, storeID int64) {
	err := h.publisher.Publish(c.Request.Context(), events.Event{
		Type:       eventType,
		StoreID:    storeID,
		CustomerID: customerID,
	})
	if err != nil {
		h.logger.Error("Failed to publish %s: %v", eventType, err)
	}
}
