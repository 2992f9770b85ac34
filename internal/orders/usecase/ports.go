package usecase

import (
	"context"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
)

// OrderStore is the persistence port for orders. Implementations report
// absence as (nil, nil) — lookups never use errors for control flow.
type OrderStore interface {
	// Exists reports whether an order with this identity was already persisted.
	Exists(ctx context.Context, orderID int64) (bool, error)

	// Save persists the order together with its items and establishes the
	// relationship to the given customer. The store assigns CreatedAt.
	Save(ctx context.Context, order *domain.Order, customer *domain.Customer) (*domain.Order, error)

	// FindByID loads the order row without its items.
	FindByID(ctx context.Context, orderID int64) (*domain.Order, error)

	// FindByIDWithItems loads the order together with its item list.
	FindByIDWithItems(ctx context.Context, orderID int64) (*domain.Order, error)

	// FindByCustomerID returns one page of the customer's orders. All
	// pagination math (offset, limit, total-pages ceiling) is owned here.
	FindByCustomerID(ctx context.Context, customerID int64, req PageRequest) (*OrderPage, error)

	// CountByCustomerID returns the total number of orders for a customer.
	CountByCustomerID(ctx context.Context, customerID int64) (int64, error)
}

// CustomerStore is the persistence port for customers.
type CustomerStore interface {
	// FindByID returns (nil, nil) when the customer does not exist.
	FindByID(ctx context.Context, customerID int64) (*domain.Customer, error)

	// Save persists the customer. It is idempotent by identity: a
	// conflicting insert is a successful no-op returning the existing row,
	// so concurrent find-or-create races never produce duplicates.
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}

// UnitOfWork scopes a function to a single storage transaction so that an
// ingestion attempt's order save and customer creation become visible
// together or not at all.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
