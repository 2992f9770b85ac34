package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the aggregate root: it owns its items and keeps two derived
// fields (TotalAmount, ItemsCount) consistent with the item list at all
// times. Any operation that replaces or appends items recomputes both
// synchronously; after an in-place item mutation the caller invokes
// UpdateTotals explicitly.
//
// CreatedAt is assigned by the persistence layer, not here.
type Order struct {
	OrderID     int64
	CustomerID  int64
	TotalAmount decimal.Decimal
	ItemsCount  int
	CreatedAt   time.Time
	Items       []OrderItem
}

// NewOrder builds an order and brings its derived totals up to date.
func NewOrder(orderID, customerID int64, items []OrderItem) *Order {
	o := &Order{
		OrderID:    orderID,
		CustomerID: customerID,
		Items:      items,
	}
	o.UpdateTotals()
	return o
}

// CalculateTotalAmount returns the sum of the item totals. It is a pure
// read over the current item list and never mutates the order.
func (o *Order) CalculateTotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// UpdateTotals refreshes every item's total first, then the order-level
// ItemsCount and TotalAmount. Persisted values are never trusted over
// this recomputation.
func (o *Order) UpdateTotals() {
	for idx := range o.Items {
		o.Items[idx].UpdateTotalPrice()
	}
	o.ItemsCount = len(o.Items)
	o.TotalAmount = o.CalculateTotalAmount()
}

// AddItem appends an item and recomputes the derived totals.
func (o *Order) AddItem(item OrderItem) {
	o.Items = append(o.Items, item)
	o.UpdateTotals()
}

// SetItems replaces the item list and recomputes the derived totals.
func (o *Order) SetItems(items []OrderItem) {
	o.Items = items
	o.UpdateTotals()
}

// IsValid is the ingestion validity predicate: both identities present,
// at least one item, and every item individually valid.
func (o *Order) IsValid() bool {
	if o == nil {
		return false
	}
	if o.OrderID <= 0 || o.CustomerID <= 0 || len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if !item.IsValid() {
			return false
		}
	}
	return true
}
