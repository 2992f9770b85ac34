package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OrderItem is a single line of an Order. The item is exclusively owned by
// its parent order and carries a derived TotalPrice that is kept in sync
// eagerly: every mutation of Quantity or Price recomputes it before
// returning. Callers never observe a stale total.
type OrderItem struct {
	ItemID     int64
	Product    string
	Quantity   int
	Price      decimal.Decimal
	TotalPrice decimal.Decimal
}

// NewOrderItem builds an item and computes its total immediately.
func NewOrderItem(product string, quantity int, price decimal.Decimal) OrderItem {
	item := OrderItem{
		Product:  product,
		Quantity: quantity,
		Price:    price,
	}
	item.UpdateTotalPrice()
	return item
}

// UpdateTotalPrice recomputes TotalPrice as Price × Quantity.
// A zero quantity or zero price simply yields a zero total.
func (i *OrderItem) UpdateTotalPrice() {
	i.TotalPrice = i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SetQuantity mutates the quantity and recomputes the total.
func (i *OrderItem) SetQuantity(quantity int) {
	i.Quantity = quantity
	i.UpdateTotalPrice()
}

// SetPrice mutates the unit price and recomputes the total.
func (i *OrderItem) SetPrice(price decimal.Decimal) {
	i.Price = price
	i.UpdateTotalPrice()
}

// IsValid reports whether the item can be part of a persisted order:
// non-blank product, positive quantity, non-negative price.
func (i OrderItem) IsValid() bool {
	return strings.TrimSpace(i.Product) != "" &&
		i.Quantity > 0 &&
		i.Price.Cmp(decimal.Zero) >= 0
}
