package usecase

import (
	"context"
	"log/slog"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
)

// ProcessOrder makes an inbound order durable exactly once.
//
// The pipeline is strict: validate → existence check → find-or-create the
// owning customer → persist. A duplicate delivery short-circuits after the
// existence check and returns success without side effects, which is what
// makes the whole use case safe to re-invoke under at-least-once delivery.
type ProcessOrder struct {
	orders    OrderStore
	customers CustomerStore
	uow       UnitOfWork // nil-safe: steps run without a transaction if nil
}

// NewProcessOrder wires the ingestion use case. uow may be nil — the
// customer save is idempotent by identity, so a retry after a partial
// failure converges on the same state either way.
func NewProcessOrder(orders OrderStore, customers CustomerStore, uow UnitOfWork) *ProcessOrder {
	return &ProcessOrder{
		orders:    orders,
		customers: customers,
		uow:       uow,
	}
}

// Execute runs one ingestion attempt. It returns domain.ErrInvalidOrder
// for malformed input and passes store errors through unchanged — retry
// policy belongs to the message-delivery side.
func (u *ProcessOrder) Execute(ctx context.Context, order *domain.Order) error {
	if !order.IsValid() {
		var id int64
		if order != nil {
			id = order.OrderID
		}
		slog.ErrorContext(ctx, "invalid order received", "order_id", id)
		return domain.ErrInvalidOrder
	}

	slog.InfoContext(ctx, "processing order",
		"order_id", order.OrderID, "customer_id", order.CustomerID)

	if u.uow == nil {
		return u.process(ctx, order)
	}
	return u.uow.RunInTx(ctx, func(ctx context.Context) error {
		return u.process(ctx, order)
	})
}

func (u *ProcessOrder) process(ctx context.Context, order *domain.Order) error {
	exists, err := u.orders.Exists(ctx, order.OrderID)
	if err != nil {
		return err
	}
	if exists {
		// Duplicate delivery is not an error: same persisted state as
		// processing the message once.
		slog.WarnContext(ctx, "order already exists", "order_id", order.OrderID)
		return nil
	}

	customer, err := u.findOrCreateCustomer(ctx, order.CustomerID)
	if err != nil {
		return err
	}

	saved, err := u.orders.Save(ctx, order, customer)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "order processed",
		"order_id", saved.OrderID,
		"total_amount", saved.TotalAmount,
		"items_count", saved.ItemsCount)
	return nil
}

func (u *ProcessOrder) findOrCreateCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	customer, err := u.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	slog.InfoContext(ctx, "creating new customer", "customer_id", customerID)
	return u.customers.Save(ctx, domain.NewCustomer(customerID))
}
