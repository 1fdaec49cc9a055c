package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShoppingCartItem struct {
	ID         string    `json:"id" gorm:"type:uuid;primary_key"`
	CustomerID string    `json:"customer_id" gorm:"type:uuid;not null;index"`
	StoreID    int64     `json:"store_id" gorm:"not null;index"`
	SKU        string    `json:"sku" gorm:"not null"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url"`
	Quantity   int       `json:"quantity" gorm:"default:1"`
	Price      float64   `json:"price" gorm:"type:decimal(10,2)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (i *ShoppingCartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
