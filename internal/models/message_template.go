package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageTemplate is a transactional notification template. When UseBrevo is
// set the message is relayed through Brevo's transactional API using
// BrevoTemplateID; otherwise it is sent over local SMTP.
type MessageTemplate struct {
	ID              string    `json:"id" gorm:"type:uuid;primary_key"`
	Name            string    `json:"name" gorm:"unique;not null"`
	Subject         string    `json:"subject"`
	Body            string    `json:"body"`
	BrevoTemplateID *int64    `json:"brevo_template_id"`
	UseBrevo        bool      `json:"use_brevo" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (t *MessageTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
