package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID          string      `json:"id" gorm:"type:uuid;primary_key"`
	OrderNumber int64       `json:"order_number" gorm:"index"`
	CustomerID  string      `json:"customer_id" gorm:"type:uuid;not null;index"`
	Email       string      `json:"email" gorm:"not null"`
	StoreID     int64       `json:"store_id" gorm:"not null;index"`
	Status      OrderStatus `json:"status" gorm:"default:PLACED"`
	Total       float64     `json:"total" gorm:"type:decimal(10,2)"`
	Currency    string      `json:"currency" gorm:"default:USD"`
	Items       []OrderItem `json:"items" gorm:"serializer:json"`
	PaidAt      *time.Time  `json:"paid_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type OrderItem struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	ImageURL string  `json:"image_url"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderStatus string

const (
	OrderStatusPlaced OrderStatus = "PLACED"
	OrderStatusPaid   OrderStatus = "PAID"
)

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
