package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID          string                 `json:"id" gorm:"type:uuid;primary_key"`
	Email       string                 `json:"email" gorm:"unique;not null"`
	Username    string                 `json:"username"`
	FirstName   string                 `json:"first_name"`
	LastName    string                 `json:"last_name"`
	Phone       string                 `json:"phone"`
	CountryCode string                 `json:"country_code"`
	Attributes  map[string]interface{} `json:"attributes" gorm:"serializer:json"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Customer attribute keys persisted in the Attributes map.
const (
	// AttributeCartID is the per-customer marketing-automation cart
	// identifier, created lazily on the first cart event.
	AttributeCartID = "brevo_cart_id"
)

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// CartID returns the stored cart identifier, if any.
func (c *Customer) CartID() string {
	if c.Attributes == nil {
		return ""
	}
	if v, ok := c.Attributes[AttributeCartID].(string); ok {
		return v
	}
	return ""
}

// SetCartID stores the cart identifier on the customer.
func (c *Customer) SetCartID(id string) {
	if c.Attributes == nil {
		c.Attributes = map[string]interface{}{}
	}
	c.Attributes[AttributeCartID] = id
}
