package rabbitmq

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
)

// ErrMalformedMessage marks a message that cannot be translated into the
// domain at all — a line item missing a required field. Such a message can
// never succeed, so the consumer sends it straight to the dead-letter
// queue instead of retrying.
var ErrMalformedMessage = errors.New("malformed order message")

// OrderMessage is the inbound wire schema, one order per message.
// Fields are pointers so a missing key is distinguishable from a zero
// value when deciding whether the translation is a hard failure.
type OrderMessage struct {
	OrderID    *int64             `json:"orderId"`
	CustomerID *int64             `json:"customerId"`
	Items      []OrderItemMessage `json:"items"`
}

// OrderItemMessage is one line item of the inbound message.
type OrderItemMessage struct {
	Product  *string          `json:"product"`
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

// ToDomain translates the message into the Order aggregate. A nil message
// maps to a nil order (the ingestion use case then rejects it as invalid).
// Items map 1:1, order-preserving; a line item missing any required field
// fails the whole translation rather than being dropped silently. Missing
// identities map to zero and are left for the validity predicate to
// reject.
func (m *OrderMessage) ToDomain() (*domain.Order, error) {
	if m == nil {
		return nil, nil
	}

	items := make([]domain.OrderItem, 0, len(m.Items))
	for idx, item := range m.Items {
		switch {
		case item.Product == nil:
			return nil, fmt.Errorf("%w: item %d: missing product", ErrMalformedMessage, idx)
		case item.Quantity == nil:
			return nil, fmt.Errorf("%w: item %d: missing quantity", ErrMalformedMessage, idx)
		case item.Price == nil:
			return nil, fmt.Errorf("%w: item %d: missing price", ErrMalformedMessage, idx)
		}
		items = append(items, domain.NewOrderItem(*item.Product, *item.Quantity, *item.Price))
	}

	var orderID, customerID int64
	if m.OrderID != nil {
		orderID = *m.OrderID
	}
	if m.CustomerID != nil {
		customerID = *m.CustomerID
	}

	return domain.NewOrder(orderID, customerID, items), nil
}
