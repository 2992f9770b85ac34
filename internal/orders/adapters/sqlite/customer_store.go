package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
)

// CustomerStore is the SQLite implementation of usecase.CustomerStore.
type CustomerStore struct {
	repo *Repository
}

func NewCustomerStore(repo *Repository) *CustomerStore {
	return &CustomerStore{repo: repo}
}

// FindByID returns (nil, nil) when the customer does not exist.
func (s *CustomerStore) FindByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	const q = `SELECT customer_id, created_at FROM customers WHERE customer_id = ?`

	var (
		customer  domain.Customer
		createdAt string
	)
	err := s.repo.conn(ctx).QueryRowContext(ctx, q, customerID).Scan(&customer.CustomerID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find customer %d: %w", customerID, err)
	}

	if customer.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Save inserts the customer, treating a conflicting insert as a
// successful no-op and returning the stored row either way. This is what
// makes concurrent find-or-create for the same new customer safe.
func (s *CustomerStore) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	const upsert = `
		INSERT INTO customers (customer_id, created_at)
		VALUES (?, ?)
		ON CONFLICT (customer_id) DO NOTHING`

	conn := s.repo.conn(ctx)

	_, err := conn.ExecContext(ctx, upsert, customer.CustomerID, formatTime(time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("sqlite: save customer %d: %w", customer.CustomerID, err)
	}

	// The stored row may predate this call; re-read so the returned
	// CreatedAt is always the persisted one.
	saved, err := s.FindByID(ctx, customer.CustomerID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("sqlite: customer %d missing after save", customer.CustomerID)
	}
	return saved, nil
}
