package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	appconfig "brevosync/internal/config"
	"brevosync/internal/logger"
	"brevosync/internal/models"
	"brevosync/internal/notify"
	"brevosync/internal/services/brevo"
	syncpkg "brevosync/internal/sync"
)

type MessageHandler struct {
	db      *gorm.DB
	appCfg  *appconfig.Config
	service *notify.Service
	logger  *logger.Logger
}

func NewMessageHandler(db *gorm.DB, appCfg *appconfig.Config, service *notify.Service, logger *logger.Logger) *MessageHandler {
	return &MessageHandler{
		db:      db,
		appCfg:  appCfg,
		service: service,
		logger:  logger,
	}
}

// Send dispatches a notification from a named template, through Brevo or
// local SMTP depending on the template's relay flag.
func (h *MessageHandler) Send(c *gin.Context) {
	var request struct {
		Template string            `json:"template" binding:"required"`
		To       string            `json:"to" binding:"required,email"`
		Tokens   map[string]string `json:"tokens"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SendByTemplateName(request.Template, request.To, request.Tokens); err != nil {
		h.logger.Error("Failed to send %s to %s: %v", request.Template, request.To, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}

// ExportTemplate pushes a local template to Brevo and links the remote id.
func (h *MessageHandler) ExportTemplate(c *gin.Context) {
	name := c.Param("name")

	var request struct {
		Tokens      []string `json:"tokens"`
		SenderName  string   `json:"sender_name"`
		SenderEmail string   `json:"sender_email"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.client()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	remoteID, err := notify.ExportTemplate(h.db, client, name, request.Tokens,
		brevo.Sender{Name: request.SenderName, Email: request.SenderEmail})
	if err != nil {
		h.logger.Error("Failed to export template %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"brevo_template_id": remoteID})
}

// ImportTemplate pulls a Brevo-managed template into the local store.
func (h *MessageHandler) ImportTemplate(c *gin.Context) {
	remoteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template id"})
		return
	}

	client, err := h.client()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	template, err := notify.ImportTemplate(h.db, client, remoteID)
	if err != nil {
		h.logger.Error("Failed to import template %d: %v", remoteID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": template})
}

func (h *MessageHandler) client() (*brevo.Client, error) {
	cfg := syncpkg.LoadSyncConfig(h.db, h.appCfg, models.DefaultStoreID)
	return brevo.NewClientWithBaseURL(cfg.APIKey, h.appCfg.BrevoBaseURL, h.logger)
}
