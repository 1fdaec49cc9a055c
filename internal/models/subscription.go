package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription is a newsletter subscription. At most one row exists per
// (email, store_id) pair.
type Subscription struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex:idx_subscriptions_email_store"`
	StoreID   int64     `json:"store_id" gorm:"not null;uniqueIndex:idx_subscriptions_email_store"`
	Active    bool      `json:"active" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
