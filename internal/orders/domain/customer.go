package domain

import "time"

// Customer owns orders by reference only: the Orders slice is populated
// solely when the customer was loaded "with orders" and is never the
// source of truth for counts or listings — those always come from the
// store.
type Customer struct {
	CustomerID int64
	CreatedAt  time.Time
	Orders     []*Order
}

// NewCustomer builds a customer for the given identity. CreatedAt is
// assigned by the persistence layer on first save.
func NewCustomer(customerID int64) *Customer {
	return &Customer{CustomerID: customerID}
}

// IsValid reports whether the customer has a usable identity.
func (c *Customer) IsValid() bool {
	return c != nil && c.CustomerID > 0
}

// TotalOrders returns the number of loaded orders, zero when the order
// list was not loaded.
func (c *Customer) TotalOrders() int {
	return len(c.Orders)
}

// HasOrders reports whether any orders were loaded for this customer.
func (c *Customer) HasOrders() bool {
	return len(c.Orders) > 0
}

// AddOrder appends an order to the loaded list. The call is a silent
// no-op when the list was never loaded, the order is nil, or the order
// belongs to a different customer.
func (c *Customer) AddOrder(order *Order) {
	if c.Orders == nil || order == nil || order.CustomerID != c.CustomerID {
		return
	}
	c.Orders = append(c.Orders, order)
}
