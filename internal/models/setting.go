package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Setting is a per-store scalar setting. Store ID 0 holds the global value a
// store-specific lookup falls back to.
type Setting struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	StoreID   int64     `json:"store_id" gorm:"not null;uniqueIndex:idx_settings_store_name"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_settings_store_name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting names used by the Brevo integration.
const (
	SettingAPIKey     = "brevo.apikey"
	SettingListID     = "brevo.listid"
	SettingWebhookID  = "brevo.webhookid"
	SettingUseSMTP    = "brevo.usesmtp"
	SettingSMSEnabled = "brevo.smsenabled"
	SettingSMSFrom    = "brevo.smsfrom"
	SettingPartnerSet = "brevo.partnerset"
)

func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
