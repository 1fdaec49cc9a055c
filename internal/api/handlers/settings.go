package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	appconfig "brevosync/internal/config"
	"brevosync/internal/logger"
	"brevosync/internal/models"
	"brevosync/internal/services/brevo"
	syncpkg "brevosync/internal/sync"
)

type SettingsHandler struct {
	db     *gorm.DB
	appCfg *appconfig.Config
	logger *logger.Logger
}

func NewSettingsHandler(db *gorm.DB, appCfg *appconfig.Config, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		db:     db,
		appCfg: appCfg,
		logger: logger,
	}
}

// Get returns the settings applicable to a store (with global fallback
// already applied) plus account info when the plugin is configured.
func (h *SettingsHandler) Get(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	cfg := syncpkg.LoadSyncConfig(h.db, h.appCfg, storeID)
	response := gin.H{
		"store_id":    storeID,
		"configured":  cfg.APIKey != "",
		"list_id":     cfg.ListID,
		"webhook_id":  cfg.WebhookID,
		"use_smtp":    cfg.UseSMTP,
		"sms_enabled": cfg.SMSEnabled,
		"sms_from":    cfg.SMSFrom,
	}

	if cfg.APIKey != "" {
		client, err := brevo.NewClientWithBaseURL(cfg.APIKey, h.appCfg.BrevoBaseURL, h.logger)
		if err == nil {
			if account, err := client.GetAccount(); err != nil {
				h.logger.Error("Failed to fetch account info: %v", err)
			} else {
				response["account"] = account
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// Save persists the store's Brevo settings and performs the remote-side
// bootstrap: account check, unsubscribe webhook registration, attribute
// preparation and the partner flag. Remote failures are surfaced as warnings
// so a partially applied configuration is visible to the admin.
func (h *SettingsHandler) Save(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store id"})
		return
	}

	var request struct {
		APIKey     string `json:"api_key"`
		ListID     int64  `json:"list_id"`
		UseSMTP    bool   `json:"use_smtp"`
		SMSEnabled bool   `json:"sms_enabled"`
		SMSFrom    string `json:"sms_from"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := map[string]string{
		models.SettingAPIKey:     request.APIKey,
		models.SettingListID:     strconv.FormatInt(request.ListID, 10),
		models.SettingUseSMTP:    strconv.FormatBool(request.UseSMTP),
		models.SettingSMSEnabled: strconv.FormatBool(request.SMSEnabled),
		models.SettingSMSFrom:    request.SMSFrom,
	}
	for name, value := range settings {
		if err := syncpkg.SaveSetting(h.db, storeID, name, value); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}

	warnings := h.bootstrapRemote(storeID)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings saved",
		"warnings": warnings,
	})
}

// bootstrapRemote applies the remote-side setup a fresh configuration needs.
// Each step is independently fallible and reported as a warning.
func (h *SettingsHandler) bootstrapRemote(storeID int64) []string {
	var warnings []string

	cfg := syncpkg.LoadSyncConfig(h.db, h.appCfg, storeID)
	client, err := brevo.NewClientWithBaseURL(cfg.APIKey, h.appCfg.BrevoBaseURL, h.logger)
	if err != nil {
		return append(warnings, err.Error())
	}

	if _, err := client.GetAccount(); err != nil {
		h.logger.Error("Account check failed: %v", err)
		warnings = append(warnings, "account check failed: "+err.Error())
	}

	if err := h.ensureUnsubscribeWebhook(client, cfg); err != nil {
		h.logger.Error("Webhook registration failed: %v", err)
		warnings = append(warnings, "webhook registration failed: "+err.Error())
	}

	if err := syncpkg.PrepareAttributes(client, syncpkg.DefaultTokens); err != nil {
		h.logger.Error("Attribute preparation failed: %v", err)
		warnings = append(warnings, "attribute preparation failed: "+err.Error())
	}

	if !cfg.PartnerSet {
		if err := client.SetPartner(h.appCfg.PartnerName); err != nil {
			h.logger.Error("Failed to set partner: %v", err)
			warnings = append(warnings, "partner flag failed: "+err.Error())
		} else if err := syncpkg.SaveSetting(h.db, models.DefaultStoreID, models.SettingPartnerSet, "true"); err != nil {
			warnings = append(warnings, "failed to persist partner flag")
		}
	}

	return warnings
}

// ensureUnsubscribeWebhook registers the transactional unsubscribe webhook once
// and persists the remote id so later saves can recognize it.
func (h *SettingsHandler) ensureUnsubscribeWebhook(client *brevo.Client, cfg *syncpkg.SyncConfig) error {
	existing, err := client.GetWebhooks(brevo.WebhookTypeTransactional)
	if err != nil {
		return err
	}
	for _, webhook := range existing.Webhooks {
		if webhook.URL == cfg.UnsubscribeURL {
			return syncpkg.SaveSetting(h.db, models.DefaultStoreID, models.SettingWebhookID,
				fmt.Sprintf("%d", webhook.ID))
		}
	}

	webhookID, err := client.CreateWebhook(&brevo.CreateWebhookRequest{
		URL:         cfg.UnsubscribeURL,
		Description: "brevosync unsubscribe notifications",
		Events:      []string{brevo.WebhookEventUnsubscribed},
		Type:        brevo.WebhookTypeTransactional,
	})
	if err != nil {
		return err
	}
	return syncpkg.SaveSetting(h.db, models.DefaultStoreID, models.SettingWebhookID,
		fmt.Sprintf("%d", webhookID))
}
