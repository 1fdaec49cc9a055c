package models

import (
	"time"
)

// Store represents a single storefront. Store ID 0 is reserved as the
// cross-store default when resolving settings.
type Store struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultStoreID is the pseudo store used for global (all-store) settings.
const DefaultStoreID int64 = 0
