package usecase

import (
	"context"
	"log/slog"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
)

// GetOrderTotal resolves an order together with its items and returns it
// with freshly recomputed totals. The persisted total is never trusted
// blindly — the domain recomputation is authoritative.
type GetOrderTotal struct {
	orders OrderStore
}

func NewGetOrderTotal(orders OrderStore) *GetOrderTotal {
	return &GetOrderTotal{orders: orders}
}

// Execute returns domain.ErrOrderNotFound for a degenerate identity
// (zero or negative, without touching the store) and for a genuinely
// absent order.
func (u *GetOrderTotal) Execute(ctx context.Context, orderID int64) (*domain.Order, error) {
	if orderID <= 0 {
		slog.WarnContext(ctx, "invalid order id", "order_id", orderID)
		return nil, domain.ErrOrderNotFound
	}

	order, err := u.orders.FindByIDWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		slog.WarnContext(ctx, "order not found", "order_id", orderID)
		return nil, domain.ErrOrderNotFound
	}

	order.UpdateTotals()

	slog.InfoContext(ctx, "order found",
		"order_id", orderID,
		"total_amount", order.TotalAmount,
		"items_count", order.ItemsCount)
	return order, nil
}
