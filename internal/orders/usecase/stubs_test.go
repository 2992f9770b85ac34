package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// stubOrderStore counts calls so tests can assert which persistence
// operations a use case did (and did not) reach.
type stubOrderStore struct {
	existing map[int64]bool
	orders   map[int64]*domain.Order
	page     *OrderPage
	count    int64

	existsErr error
	saveErr   error
	findErr   error

	saved []*domain.Order

	existsCalls int
	saveCalls   int
	findCalls   int
	pageCalls   int
	countCalls  int

	lastPageReq PageRequest
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{
		existing: map[int64]bool{},
		orders:   map[int64]*domain.Order{},
	}
}

func (s *stubOrderStore) Exists(ctx context.Context, orderID int64) (bool, error) {
	s.existsCalls++
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.existing[orderID], nil
}

func (s *stubOrderStore) Save(ctx context.Context, order *domain.Order, customer *domain.Customer) (*domain.Order, error) {
	s.saveCalls++
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved = append(s.saved, order)
	s.existing[order.OrderID] = true
	return order, nil
}

func (s *stubOrderStore) FindByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	s.findCalls++
	return s.orders[orderID], s.findErr
}

func (s *stubOrderStore) FindByIDWithItems(ctx context.Context, orderID int64) (*domain.Order, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.orders[orderID], nil
}

func (s *stubOrderStore) FindByCustomerID(ctx context.Context, customerID int64, req PageRequest) (*OrderPage, error) {
	s.pageCalls++
	s.lastPageReq = req
	return s.page, nil
}

func (s *stubOrderStore) CountByCustomerID(ctx context.Context, customerID int64) (int64, error) {
	s.countCalls++
	return s.count, nil
}

// stubCustomerStore is idempotent by identity, like the real collaborator:
// a save for an existing id returns the stored row without duplicating it.
type stubCustomerStore struct {
	customers map[int64]*domain.Customer

	// hideOnFind simulates the concurrent find-or-create race: FindByID
	// reports absence even after a save, so every caller takes the
	// create path and only the upsert keeps the record unique.
	hideOnFind bool

	findErr error
	saveErr error

	findCalls int
	saveCalls int
}

func newStubCustomerStore() *stubCustomerStore {
	return &stubCustomerStore{customers: map[int64]*domain.Customer{}}
}

func (s *stubCustomerStore) FindByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.hideOnFind {
		return nil, nil
	}
	return s.customers[customerID], nil
}

func (s *stubCustomerStore) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	s.saveCalls++
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if existing, ok := s.customers[customer.CustomerID]; ok {
		return existing, nil
	}
	s.customers[customer.CustomerID] = customer
	return customer, nil
}

// stubUnitOfWork records that the ingestion ran inside a transaction.
type stubUnitOfWork struct {
	calls int
}

func (u *stubUnitOfWork) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	return fn(ctx)
}
