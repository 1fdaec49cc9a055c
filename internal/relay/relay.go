package relay

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	appconfig "brevosync/internal/config"
	"brevosync/internal/logger"
	"brevosync/internal/models"
	"brevosync/internal/services/brevo"
	"brevosync/internal/sync"
)

// Tracking event names understood by Brevo's marketing automation.
const (
	EventCartCreated    = "cart_created"
	EventCartUpdated    = "cart_updated"
	EventCartDeleted    = "cart_deleted"
	EventOrderPlaced    = "order_placed"
	EventOrderCompleted = "order_completed"
)

// Relay converts local domain events into Brevo tracking and contact-update
// calls. Every remote failure is logged and swallowed: a relay handler must
// never fail the business operation that triggered it.
type Relay struct {
	db           *gorm.DB
	appCfg       *appconfig.Config
	logger       *logger.Logger
	synchronizer *sync.Synchronizer
}

func New(db *gorm.DB, appCfg *appconfig.Config, logger *logger.Logger, synchronizer *sync.Synchronizer) *Relay {
	return &Relay{
		db:           db,
		appCfg:       appCfg,
		logger:       logger,
		synchronizer: synchronizer,
	}
}

// client builds an API client from the store's configuration, re-checked on
// every event.
func (r *Relay) client(storeID int64) (*brevo.Client, error) {
	cfg := sync.LoadSyncConfig(r.db, r.appCfg, storeID)
	return brevo.NewClientWithBaseURL(cfg.APIKey, r.appCfg.BrevoBaseURL, r.logger)
}

// HandleSubscriptionActivated links the contact to the store's list.
func (r *Relay) HandleSubscriptionActivated(email string, storeID int64) {
	if err := r.synchronizer.Subscribe(email, storeID); err != nil {
		r.logger.Error("Failed to subscribe %s: %v", email, err)
	}
}

// HandleSubscriptionDeactivated unlinks the contact from the store's list.
func (r *Relay) HandleSubscriptionDeactivated(email string, storeID int64) {
	if err := r.synchronizer.Unsubscribe(email, storeID); err != nil {
		r.logger.Error("Failed to unsubscribe %s: %v", email, err)
	}
}

// HandleCartChanged fires the tracking event matching the cart's state after
// the change. The derived item count wins over the raw event type: an update
// that leaves the cart empty is a deletion.
func (r *Relay) HandleCartChanged(customerID string, storeID int64) {
	var customer models.Customer
	if err := r.db.First(&customer, "id = ?", customerID).Error; err != nil {
		r.logger.Error("Cart event for unknown customer %s: %v", customerID, err)
		return
	}

	var items []models.ShoppingCartItem
	if err := r.db.Where("customer_id = ? AND store_id = ?", customerID, storeID).Find(&items).Error; err != nil {
		r.logger.Error("Failed to load cart for customer %s: %v", customerID, err)
		return
	}

	var eventName string
	switch {
	case len(items) == 0:
		eventName = EventCartDeleted
	case len(items) == 1:
		eventName = EventCartCreated
	default:
		eventName = EventCartUpdated
	}

	cartID := customer.CartID()
	if eventName == EventCartDeleted && cartID == "" {
		// Nothing was ever tracked for this cart.
		return
	}
	if cartID == "" {
		cartID = uuid.New().String()
		customer.SetCartID(cartID)
		if err := r.db.Save(&customer).Error; err != nil {
			r.logger.Error("Failed to persist cart id for customer %s: %v", customerID, err)
			return
		}
	}

	client, err := r.client(storeID)
	if err != nil {
		if errors.Is(err, brevo.ErrNotConfigured) {
			r.logger.Debug("Cart event skipped: %v", err)
			return
		}
		r.logger.Error("Cart event skipped: %v", err)
		return
	}

	total := 0.0
	lines := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
		lines = append(lines, map[string]interface{}{
			"sku":      item.SKU,
			"name":     item.Name,
			"image":    item.ImageURL,
			"quantity": item.Quantity,
			"price":    item.Price,
		})
	}

	err = client.TrackEvent(&brevo.TrackEventRequest{
		Email: customer.Email,
		Event: eventName,
		EventData: map[string]interface{}{
			"id": "cart:" + cartID,
			"data": map[string]interface{}{
				"total":    total,
				"currency": "USD",
				"items":    lines,
			},
		},
	})
	if err != nil {
		r.logger.Error("Failed to track %s for %s: %v", eventName, customer.Email, err)
		return
	}

	if eventName == EventCartDeleted {
		// Next cart gets a fresh identifier.
		customer.SetCartID("")
		if err := r.db.Save(&customer).Error; err != nil {
			r.logger.Error("Failed to clear cart id for customer %s: %v", customerID, err)
		}
	}
}

// HandleOrderPlaced tracks the order and, when enabled, sends the SMS
// notification.
func (r *Relay) HandleOrderPlaced(orderID string) {
	order, ok := r.loadOrder(orderID)
	if !ok {
		return
	}

	client, err := r.client(order.StoreID)
	if err != nil {
		r.logger.Debug("Order placed event skipped: %v", err)
		return
	}

	if err := client.TrackEvent(r.orderTrackingEvent(order, EventOrderPlaced)); err != nil {
		r.logger.Error("Failed to track order %s: %v", order.ID, err)
	}

	r.sendOrderSMS(client, order)
}

// HandleOrderPaid tracks order completion and updates the contact's
// transactional attributes. The two remote calls are independent: either may
// fail without suppressing the other.
func (r *Relay) HandleOrderPaid(orderID string) {
	order, ok := r.loadOrder(orderID)
	if !ok {
		return
	}

	client, err := r.client(order.StoreID)
	if err != nil {
		r.logger.Debug("Order paid event skipped: %v", err)
		return
	}

	if err := client.TrackEvent(r.orderTrackingEvent(order, EventOrderCompleted)); err != nil {
		r.logger.Error("Failed to track order completion %s: %v", order.ID, err)
	}

	paidDate := time.Now().UTC()
	if order.PaidAt != nil {
		paidDate = *order.PaidAt
	}
	err = client.UpdateContact(order.Email, &brevo.UpdateContactRequest{
		Attributes: map[string]interface{}{
			sync.MapToken("%Order.OrderId%"):    order.OrderNumber,
			sync.MapToken("%Order.PaidDate%"):   paidDate.Format("2006-01-02"),
			sync.MapToken("%Order.OrderTotal%"): order.Total,
		},
	})
	if err != nil {
		r.logger.Error("Failed to update contact attributes for order %s: %v", order.ID, err)
	}
}

func (r *Relay) loadOrder(orderID string) (*models.Order, bool) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", orderID).Error; err != nil {
		r.logger.Error("Order event for unknown order %s: %v", orderID, err)
		return nil, false
	}
	return &order, true
}

func (r *Relay) orderTrackingEvent(order *models.Order, eventName string) *brevo.TrackEventRequest {
	lines := make([]map[string]interface{}, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, map[string]interface{}{
			"sku":      item.SKU,
			"name":     item.Name,
			"image":    item.ImageURL,
			"quantity": item.Quantity,
			"price":    item.Price,
		})
	}

	return &brevo.TrackEventRequest{
		Email: order.Email,
		Event: eventName,
		EventData: map[string]interface{}{
			"id": fmt.Sprintf("order:%d", order.OrderNumber),
			"data": map[string]interface{}{
				"total":    order.Total,
				"currency": order.Currency,
				"items":    lines,
			},
		},
	}
}

// sendOrderSMS sends the order notification SMS when SMS relay is enabled
// for the store and the customer has a usable phone number.
func (r *Relay) sendOrderSMS(client *brevo.Client, order *models.Order) {
	cfg := sync.LoadSyncConfig(r.db, r.appCfg, order.StoreID)
	if !cfg.SMSEnabled || cfg.SMSFrom == "" {
		return
	}

	var customer models.Customer
	if err := r.db.First(&customer, "id = ?", order.CustomerID).Error; err != nil || customer.Phone == "" {
		return
	}

	_, err := client.SendSMS(&brevo.SendSMSRequest{
		Sender:    cfg.SMSFrom,
		Recipient: sync.SMSPhone(customer.Phone, customer.CountryCode),
		Content:   fmt.Sprintf("Your order #%d has been received. Total: %.2f %s", order.OrderNumber, order.Total, order.Currency),
		Type:      "transactional",
	})
	if err != nil {
		r.logger.Error("Failed to send order SMS for order %s: %v", order.ID, err)
	}
}
