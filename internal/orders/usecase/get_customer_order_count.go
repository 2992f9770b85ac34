package usecase

import (
	"context"
	"log/slog"
)

// GetCustomerOrderCount returns the store's order count for a customer.
type GetCustomerOrderCount struct {
	orders OrderStore
}

func NewGetCustomerOrderCount(orders OrderStore) *GetCustomerOrderCount {
	return &GetCustomerOrderCount{orders: orders}
}

// Execute short-circuits a degenerate identity to zero without touching
// the store; malformed input never reaches persistence.
func (u *GetCustomerOrderCount) Execute(ctx context.Context, customerID int64) (int64, error) {
	if customerID <= 0 {
		slog.WarnContext(ctx, "invalid customer id", "customer_id", customerID)
		return 0, nil
	}

	count, err := u.orders.CountByCustomerID(ctx, customerID)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "order count resolved", "customer_id", customerID, "count", count)
	return count, nil
}
