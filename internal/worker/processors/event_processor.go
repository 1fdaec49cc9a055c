package processors

import (
	"fmt"

	"brevosync/internal/events"
	"brevosync/internal/logger"
	"brevosync/internal/relay"
)

// EventProcessor routes domain events from the store-events topic to the
// matching relay handler. Relay handlers swallow remote failures themselves,
// so a non-nil error here only means the event could not be dispatched.
type EventProcessor struct {
	logger *logger.Logger
	relay  *relay.Relay
}

func NewEventProcessor(r *relay.Relay, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		logger: logger,
		relay:  r,
	}
}

func (ep *EventProcessor) Process(event events.Event) error {
	ep.logger.Debug("Processing event: %s", event.Type)

	switch event.Type {
	case events.SubscriptionActivated:
		ep.relay.HandleSubscriptionActivated(event.Email, event.StoreID)
	case events.SubscriptionDeactivated:
		ep.relay.HandleSubscriptionDeactivated(event.Email, event.StoreID)
	case events.CartItemInserted, events.CartItemUpdated, events.CartItemDeleted:
		ep.relay.HandleCartChanged(event.CustomerID, event.StoreID)
	case events.OrderPlaced:
		ep.relay.HandleOrderPlaced(event.OrderID)
	case events.OrderPaid:
		ep.relay.HandleOrderPaid(event.OrderID)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	return nil
}
