package usecase

import (
	"context"
	"log/slog"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
)

// defaultSort orders customer history most-recent-first when the caller
// expressed no preference.
var defaultSort = Sort{Field: "created_at", Direction: SortDesc}

// GetCustomerOrders pages through a customer's order history. The page
// envelope (content, totals, current page) comes back from the store
// verbatim — no pagination math is redone here.
type GetCustomerOrders struct {
	orders    OrderStore
	customers CustomerStore
}

func NewGetCustomerOrders(orders OrderStore, customers CustomerStore) *GetCustomerOrders {
	return &GetCustomerOrders{orders: orders, customers: customers}
}

// Execute returns *domain.CustomerNotFoundError both for a degenerate
// identity (no store access at all) and for a customer that genuinely
// does not exist.
func (u *GetCustomerOrders) Execute(ctx context.Context, customerID int64, req PageRequest) (*OrderPage, error) {
	if customerID <= 0 {
		slog.WarnContext(ctx, "invalid customer id", "customer_id", customerID)
		return nil, &domain.CustomerNotFoundError{CustomerID: customerID}
	}

	customer, err := u.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		slog.WarnContext(ctx, "customer not found", "customer_id", customerID)
		return nil, &domain.CustomerNotFoundError{CustomerID: customerID}
	}

	if !req.Sorted() {
		req.Sort = &defaultSort
	}

	page, err := u.orders.FindByCustomerID(ctx, customerID, req)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "customer orders resolved",
		"customer_id", customerID,
		"page", page.Number,
		"total_pages", page.TotalPages,
		"total_elements", page.TotalElements)
	return page, nil
}
