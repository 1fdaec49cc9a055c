package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brevosync/internal/logger"
	"brevosync/internal/models"
	"brevosync/internal/services/brevo"
)

// WebhookHandler receives Brevo's inbound callbacks. Both endpoints answer
// plain text: "OK" for anything handled (including correctly-but-vacuously,
// e.g. an unknown store), "Bad request" for unparsable payloads and for
// storage failures so the vendor retries instead of dropping the signal.
type WebhookHandler struct {
	db     *gorm.DB
	logger *logger.Logger

	mu         sync.Mutex
	lastImport *brevo.ImportNotification
}

func NewWebhookHandler(db *gorm.DB, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		db:     db,
		logger: logger,
	}
}

// Unsubscribe handles the JSON unsubscribe callback. The tag field carries
// back the store id this service attached at send time; payloads without a
// usable tag are foreign and ignored.
func (h *WebhookHandler) Unsubscribe(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "Bad request")
		return
	}

	var notification brevo.UnsubscribeNotification
	if err := json.Unmarshal(payload, &notification); err != nil {
		h.logger.Error("Failed to parse unsubscribe webhook: %v", err)
		c.String(http.StatusBadRequest, "Bad request")
		return
	}

	if notification.Tag == "" || notification.Email == "" {
		c.String(http.StatusOK, "OK")
		return
	}

	storeID, err := strconv.ParseInt(notification.Tag, 10, 64)
	if err != nil {
		h.logger.Debug("Unsubscribe webhook with foreign tag %q ignored", notification.Tag)
		c.String(http.StatusOK, "OK")
		return
	}

	var store models.Store
	if err := h.db.First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Warn("Unsubscribe webhook for unknown store %d ignored", storeID)
			c.String(http.StatusOK, "OK")
			return
		}
		h.logger.Error("Failed to look up store %d: %v", storeID, err)
		c.String(http.StatusBadRequest, "Bad request")
		return
	}

	var subscription models.Subscription
	err = h.db.Where("email = ? AND store_id = ?", notification.Email, storeID).First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.String(http.StatusOK, "OK")
			return
		}
		h.logger.Error("Failed to look up subscription for %s: %v", notification.Email, err)
		c.String(http.StatusBadRequest, "Bad request")
		return
	}

	if subscription.Active {
		subscription.Active = false
		if err := h.db.Save(&subscription).Error; err != nil {
			h.logger.Error("Failed to deactivate subscription %s: %v", subscription.ID, err)
			c.String(http.StatusBadRequest, "Bad request")
			return
		}
	}

	h.logger.Info("Unsubscribed %s from store %d (vendor event date: %s)",
		notification.Email, storeID, notification.DateEvent)
	c.String(http.StatusOK, "OK")
}

// ImportDone handles the form-encoded import-completion callback. The counts
// are informational: logged and held for the next admin poll, never persisted.
func (h *WebhookHandler) ImportDone(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "Bad request")
		return
	}

	notification := &brevo.ImportNotification{
		NewEmails:       c.PostForm("new_emails"),
		EmailsExists:    c.PostForm("emails_exists"),
		InvalidEmail:    c.PostForm("invalid_email"),
		DuplicatesEmail: c.PostForm("duplicates_email"),
		ReceivedAt:      time.Now().UTC(),
	}

	h.logger.Info("Import completed: %s new, %s existing, %s invalid, %s duplicates",
		notification.NewEmails, notification.EmailsExists,
		notification.InvalidEmail, notification.DuplicatesEmail)

	h.mu.Lock()
	h.lastImport = notification
	h.mu.Unlock()

	c.String(http.StatusOK, "OK")
}

// ImportReport returns the last import notification to the admin and clears
// it; the report is display-once.
func (h *WebhookHandler) ImportReport(c *gin.Context) {
	h.mu.Lock()
	report := h.lastImport
	h.lastImport = nil
	h.mu.Unlock()

	if report == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}
