package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brevosync/internal/events"
	"brevosync/internal/logger"
	"brevosync/internal/models"
)

type OrderHandler struct {
	db        *gorm.DB
	publisher EventPublisher
	logger    *logger.Logger
}

func NewOrderHandler(db *gorm.DB, publisher EventPublisher, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// Place creates an order from the customer's current cart, clears the cart
// and emits order.placed (followed by cart.item_deleted so the cart tracking
// state catches up).
func (h *OrderHandler) Place(c *gin.Context) {
	var request struct {
		CustomerID string `json:"customer_id" binding:"required"`
		StoreID    int64  `json:"store_id" binding:"required"`
		Currency   string `json:"currency"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", request.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer"})
		return
	}

	var cartItems []models.ShoppingCartItem
	if err := h.db.Where("customer_id = ? AND store_id = ?", request.CustomerID, request.StoreID).Find(&cartItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if len(cartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	total := 0.0
	items := make([]models.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		total += item.Price * float64(item.Quantity)
		items = append(items, models.OrderItem{
			SKU:      item.SKU,
			Name:     item.Name,
			ImageURL: item.ImageURL,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	currency := request.Currency
	if currency == "" {
		currency = "USD"
	}

	order := models.Order{
		OrderNumber: h.nextOrderNumber(),
		CustomerID:  customer.ID,
		Email:       customer.Email,
		StoreID:     request.StoreID,
		Status:      models.OrderStatusPlaced,
		Total:       total,
		Currency:    currency,
		Items:       items,
	}
	if err := h.db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	if err := h.db.Where("customer_id = ? AND store_id = ?", request.CustomerID, request.StoreID).
		Delete(&models.ShoppingCartItem{}).Error; err != nil {
		h.logger.Error("Failed to clear cart after order %s: %v", order.ID, err)
	}

	h.publish(c, events.Event{
		Type:       events.OrderPlaced,
		StoreID:    order.StoreID,
		Email:      order.Email,
		CustomerID: order.CustomerID,
		OrderID:    order.ID,
	})
	h.publish(c, events.Event{
		Type:       events.CartItemDeleted,
		StoreID:    order.StoreID,
		CustomerID: order.CustomerID,
	})

	c.JSON(http.StatusCreated, gin.H{"data": order})
}

// Pay marks an order paid and emits order.paid.
func (h *OrderHandler) Pay(c *gin.Context) {
	id := c.Param("id")

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	if order.Status != models.OrderStatusPaid {
		now := time.Now().UTC()
		order.Status = models.OrderStatusPaid
		order.PaidAt = &now
		if err := h.db.Save(&order).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}
	}

	h.publish(c, events.Event{
		Type:       events.OrderPaid,
		StoreID:    order.StoreID,
		Email:      order.Email,
		CustomerID: order.CustomerID,
		OrderID:    order.ID,
	})

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (h *OrderHandler) nextOrderNumber() int64 {
	var max int64
	h.db.Model(&models.Order{}).Select("COALESCE(MAX(order_number), 0)").Scan(&max)
	return max + 1
}

func (h *OrderHandler) publish(c *gin.Context, event events.Event) {
	if err := h.publisher.Publish(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to publish %s: %v", event.Type, err)
	}
}
