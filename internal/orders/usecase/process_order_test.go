package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
)

func validOrder(orderID, customerID int64) *domain.Order {
	return domain.NewOrder(orderID, customerID, []domain.OrderItem{
		domain.NewOrderItem("notebook", 1, dec("1500.00")),
		domain.NewOrderItem("mouse", 2, dec("75.50")),
	})
}

func TestProcessOrderRejectsInvalidInputBeforeAnyStoreAccess(t *testing.T) {
	orders := newStubOrderStore()
	customers := newStubCustomerStore()
	uc := NewProcessOrder(orders, customers, nil)

	for name, order := range map[string]*domain.Order{
		"nil order":      nil,
		"no items":       domain.NewOrder(10, 5, nil),
		"zero order id":  domain.NewOrder(0, 5, []domain.OrderItem{domain.NewOrderItem("pen", 1, dec("2.00"))}),
		"zero customer":  domain.NewOrder(10, 0, []domain.OrderItem{domain.NewOrderItem("pen", 1, dec("2.00"))}),
		"invalid item":   domain.NewOrder(10, 5, []domain.OrderItem{domain.NewOrderItem("", 1, dec("2.00"))}),
	} {
		t.Run(name, func(t *testing.T) {
			err := uc.Execute(context.Background(), order)
			assert.ErrorIs(t, err, domain.ErrInvalidOrder)
		})
	}

	assert.Zero(t, orders.existsCalls)
	assert.Zero(t, orders.saveCalls)
	assert.Zero(t, customers.findCalls)
	assert.Zero(t, customers.saveCalls)
}

func TestProcessOrderPersistsNewOrderForNewCustomer(t *testing.T) {
	orders := newStubOrderStore()
	customers := newStubCustomerStore()
	uc := NewProcessOrder(orders, customers, nil)

	err := uc.Execute(context.Background(), validOrder(1001, 42))
	require.NoError(t, err)

	require.Len(t, orders.saved, 1)
	saved := orders.saved[0]
	assert.Equal(t, int64(1001), saved.OrderID)
	assert.Equal(t, int64(42), saved.CustomerID)
	assert.True(t, dec("1651.00").Equal(saved.TotalAmount))
	assert.Equal(t, 2, saved.ItemsCount)

	assert.Equal(t, 1, customers.findCalls)
	assert.Equal(t, 1, customers.saveCalls)
	require.Contains(t, customers.customers, int64(42))
}

func TestProcessOrderReusesExistingCustomer(t *testing.T) {
	orders := newStubOrderStore()
	customers := newStubCustomerStore()
	customers.customers[42] = domain.NewCustomer(42)
	uc := NewProcessOrder(orders, customers, nil)

	err := uc.Execute(context.Background(), validOrder(1001, 42))
	require.NoError(t, err)

	assert.Equal(t, 1, customers.findCalls)
	assert.Zero(t, customers.saveCalls)
	assert.Equal(t, 1, orders.saveCalls)
}

func TestProcessOrderDuplicateDeliveryIsASuccessfulNoOp(t *testing.T) {
	orders := newStubOrderStore()
	customers := newStubCustomerStore()
	uc := NewProcessOrder(orders, customers, nil)

	require.NoError(t, uc.Execute(context.Background(), validOrder(1001, 42)))
	require.NoError(t, uc.Execute(context.Background(), validOrder(1001, 42)))

	// The second delivery short-circuits after the existence check: no new
	// save and no customer lookup at all.
	assert.Equal(t, 2, orders.existsCalls)
	assert.Equal(t, 1, orders.saveCalls)
	assert.Equal(t, 1, customers.findCalls)
	assert.Equal(t, 1, customers.saveCalls)
}

func TestProcessOrderConcurrentCreateConvergesOnOneCustomer(t *testing.T) {
	orders := newStubOrderStore()
	customers := newStubCustomerStore()
	customers.hideOnFind = true
	uc := NewProcessOrder(orders, customers, nil)

	require.NoError(t, uc.Execute(context.Background(), validOrder(1001, 42)))
	require.NoError(t, uc.Execute(context.Background(), validOrder(1002, 42)))

	// Both attempts took the create path, but the identity-idempotent save
	// keeps exactly one customer record.
	assert.Equal(t, 2, customers.saveCalls)
	assert.Len(t, customers.customers, 1)
	assert.Equal(t, 2, orders.saveCalls)
}

func TestProcessOrderPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk on fire")

	t.Run("exists", func(t *testing.T) {
		orders := newStubOrderStore()
		orders.existsErr = boom
		uc := NewProcessOrder(orders, newStubCustomerStore(), nil)

		err := uc.Execute(context.Background(), validOrder(1001, 42))
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, orders.saveCalls)
	})

	t.Run("customer find", func(t *testing.T) {
		orders := newStubOrderStore()
		customers := newStubCustomerStore()
		customers.findErr = boom
		uc := NewProcessOrder(orders, customers, nil)

		err := uc.Execute(context.Background(), validOrder(1001, 42))
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, orders.saveCalls)
	})

	t.Run("customer save", func(t *testing.T) {
		orders := newStubOrderStore()
		customers := newStubCustomerStore()
		customers.saveErr = boom
		uc := NewProcessOrder(orders, customers, nil)

		err := uc.Execute(context.Background(), validOrder(1001, 42))
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, orders.saveCalls)
	})

	t.Run("order save", func(t *testing.T) {
		orders := newStubOrderStore()
		orders.saveErr = boom
		uc := NewProcessOrder(orders, newStubCustomerStore(), nil)

		err := uc.Execute(context.Background(), validOrder(1001, 42))
		assert.ErrorIs(t, err, boom)
	})
}

func TestProcessOrderRunsInsideUnitOfWork(t *testing.T) {
	orders := newStubOrderStore()
	customers := newStubCustomerStore()
	uow := &stubUnitOfWork{}
	uc := NewProcessOrder(orders, customers, uow)

	require.NoError(t, uc.Execute(context.Background(), validOrder(1001, 42)))
	assert.Equal(t, 1, uow.calls)
	assert.Equal(t, 1, orders.saveCalls)

	// Invalid input is rejected before a transaction is even opened.
	assert.Error(t, uc.Execute(context.Background(), nil))
	assert.Equal(t, 1, uow.calls)
}
