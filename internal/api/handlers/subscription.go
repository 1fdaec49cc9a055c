package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brevosync/internal/events"
	"brevosync/internal/logger"
	"brevosync/internal/models"
)

// EventPublisher abstracts the Kafka publisher for handlers that emit domain
// events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type SubscriptionHandler struct {
	db        *gorm.DB
	publisher EventPublisher
	logger    *logger.Logger
}

func NewSubscriptionHandler(db *gorm.DB, publisher EventPublisher, logger *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// Subscribe activates (or creates) the subscription and emits the
// subscription.activated event.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var request struct {
		Email   string `json:"email" binding:"required,email"`
		StoreID int64  `json:"store_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var subscription models.Subscription
	err := h.db.Where("email = ? AND store_id = ?", request.Email, request.StoreID).First(&subscription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		subscription = models.Subscription{Email: request.Email, StoreID: request.StoreID, Active: true}
		err = h.db.Create(&subscription).Error
	} else if err == nil && !subscription.Active {
		subscription.Active = true
		err = h.db.Save(&subscription).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	h.publish(c, events.Event{
		Type:    events.SubscriptionActivated,
		StoreID: request.StoreID,
		Email:   request.Email,
	})

	c.JSON(http.StatusOK, gin.H{"data": subscription})
}

// Unsubscribe deactivates the subscription and emits the
// subscription.deactivated event.
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	var request struct {
		Email   string `json:"email" binding:"required,email"`
		StoreID int64  `json:"store_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var subscription models.Subscription
	if err := h.db.Where("email = ? AND store_id = ?", request.Email, request.StoreID).First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscription"})
		return
	}

	if subscription.Active {
		subscription.Active = false
		if err := h.db.Save(&subscription).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
			return
		}
	}

	h.publish(c, events.Event{
		Type:    events.SubscriptionDeactivated,
		StoreID: request.StoreID,
		Email:   request.Email,
	})

	c.JSON(http.StatusOK, gin.H{"data": subscription})
}

// publish emits a domain event; a publish failure is logged but never fails
// the request that triggered it.
func (h *SubscriptionHandler) publish(c *gin.Context, event events.Event) {
	if err := h.publisher.Publish(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to publish %s: %v", event.Type, err)
	}
}
