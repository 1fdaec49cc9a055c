package sync

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	appconfig "brevosync/internal/config"
	"brevosync/internal/models"
)

// SyncConfig is the explicit configuration value object each operation loads
// once at call time from the settings store.
type SyncConfig struct {
	StoreID    int64
	APIKey     string
	ListID     int64
	WebhookID  int64
	UseSMTP    bool
	SMSEnabled bool
	SMSFrom    string
	PartnerSet bool

	// Callback URLs handed to Brevo.
	NotifyURL      string
	UnsubscribeURL string
}

// LoadSyncConfig resolves the configuration applicable to a store. Settings
// missing for the store fall back to the global value (store 0); the API key
// additionally falls back to the environment.
func LoadSyncConfig(db *gorm.DB, appCfg *appconfig.Config, storeID int64) *SyncConfig {
	cfg := &SyncConfig{
		StoreID:        storeID,
		NotifyURL:      appCfg.PublicBaseURL + "/webhooks/brevo/import",
		UnsubscribeURL: appCfg.PublicBaseURL + "/webhooks/brevo/unsubscribe",
	}

	cfg.APIKey = getSetting(db, storeID, models.SettingAPIKey)
	if cfg.APIKey == "" {
		cfg.APIKey = appCfg.BrevoAPIKey
	}
	cfg.ListID, _ = strconv.ParseInt(getSetting(db, storeID, models.SettingListID), 10, 64)
	cfg.WebhookID, _ = strconv.ParseInt(getSetting(db, storeID, models.SettingWebhookID), 10, 64)
	cfg.UseSMTP = getSetting(db, storeID, models.SettingUseSMTP) == "true"
	cfg.SMSEnabled = getSetting(db, storeID, models.SettingSMSEnabled) == "true"
	cfg.SMSFrom = getSetting(db, storeID, models.SettingSMSFrom)
	cfg.PartnerSet = getSetting(db, storeID, models.SettingPartnerSet) == "true"

	return cfg
}

// getSetting reads a setting for a store, falling back to the global store.
func getSetting(db *gorm.DB, storeID int64, name string) string {
	var setting models.Setting
	err := db.Where("store_id = ? AND name = ?", storeID, name).First(&setting).Error
	if err == nil {
		return setting.Value
	}
	if storeID != models.DefaultStoreID && errors.Is(err, gorm.ErrRecordNotFound) {
		return getSetting(db, models.DefaultStoreID, name)
	}
	return ""
}

// SaveSetting upserts a per-store setting.
func SaveSetting(db *gorm.DB, storeID int64, name, value string) error {
	var setting models.Setting
	err := db.Where("store_id = ? AND name = ?", storeID, name).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&models.Setting{StoreID: storeID, Name: name, Value: value}).Error
	}
	if err != nil {
		return err
	}
	setting.Value = value
	return db.Save(&setting).Error
}
