package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
	"github.com/iagoomes/btg-orders-challenge/internal/orders/usecase"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// saveOrder persists a customer (idempotently) and one order for it.
func saveOrder(t *testing.T, repo *Repository, orderID, customerID int64, items []domain.OrderItem) *domain.Order {
	t.Helper()
	ctx := context.Background()

	customer, err := NewCustomerStore(repo).Save(ctx, domain.NewCustomer(customerID))
	require.NoError(t, err)

	saved, err := NewOrderStore(repo).Save(ctx, domain.NewOrder(orderID, customerID, items), customer)
	require.NoError(t, err)
	return saved
}

func TestOrderStoreSaveAndLoad(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	store := NewOrderStore(repo)

	saved := saveOrder(t, repo, 1001, 42, []domain.OrderItem{
		domain.NewOrderItem("notebook", 1, dec("1500.00")),
		domain.NewOrderItem("mouse", 2, dec("75.50")),
	})
	assert.True(t, dec("1651.00").Equal(saved.TotalAmount))
	assert.Equal(t, 2, saved.ItemsCount)
	assert.False(t, saved.CreatedAt.IsZero())

	exists, err := store.Exists(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, exists)

	order, err := store.FindByIDWithItems(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, int64(42), order.CustomerID)
	assert.True(t, dec("1651.00").Equal(order.TotalAmount))
	require.Len(t, order.Items, 2)
	assert.Equal(t, "notebook", order.Items[0].Product)
	assert.Equal(t, "mouse", order.Items[1].Product)
	assert.True(t, dec("151.00").Equal(order.Items[1].TotalPrice))
	assert.Positive(t, order.Items[0].ItemID)
	assert.Equal(t, saved.CreatedAt, order.CreatedAt)
}

func TestOrderStoreAbsentOrderIsNilNil(t *testing.T) {
	repo := openTestRepo(t)
	store := NewOrderStore(repo)

	order, err := store.FindByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, order)

	order, err = store.FindByIDWithItems(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestOrderStoreDuplicateIdentityFailsAtSQL(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	items := []domain.OrderItem{domain.NewOrderItem("pen", 1, dec("2.00"))}
	saveOrder(t, repo, 1001, 42, items)

	customer, err := NewCustomerStore(repo).FindByID(ctx, 42)
	require.NoError(t, err)
	_, err = NewOrderStore(repo).Save(ctx, domain.NewOrder(1001, 42, items), customer)
	assert.Error(t, err)
}

func TestOrderStorePagination(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	store := NewOrderStore(repo)

	for i := int64(1); i <= 12; i++ {
		saveOrder(t, repo, 1000+i, 42, []domain.OrderItem{
			domain.NewOrderItem(fmt.Sprintf("product-%d", i), 1, decimal.NewFromInt(i*10)),
		})
	}
	// Another customer's orders must never leak into the page.
	saveOrder(t, repo, 2001, 77, []domain.OrderItem{domain.NewOrderItem("pen", 1, dec("2.00"))})

	page, err := store.FindByCustomerID(ctx, 42, usecase.PageRequest{Page: 1, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 5, page.Size)
	require.Len(t, page.Content, 5)

	// Default sort is newest first with order_id tiebreak, so page 1 of 5
	// carries orders 1007..1003.
	for i, want := range []int64{1007, 1006, 1005, 1004, 1003} {
		assert.Equal(t, want, page.Content[i].OrderID)
		require.Len(t, page.Content[i].Items, 1)
	}

	last, err := store.FindByCustomerID(ctx, 42, usecase.PageRequest{Page: 2, Size: 5})
	require.NoError(t, err)
	require.Len(t, last.Content, 2)

	empty, err := store.FindByCustomerID(ctx, 42, usecase.PageRequest{Page: 9, Size: 5})
	require.NoError(t, err)
	assert.Empty(t, empty.Content)
	assert.Equal(t, int64(12), empty.TotalElements)

	count, err := store.CountByCustomerID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}

func TestOrderStoreSortByTotalAmountIsNumeric(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	store := NewOrderStore(repo)

	// Lexicographically "9.00" > "100.00"; numeric ordering must win.
	saveOrder(t, repo, 1, 42, []domain.OrderItem{domain.NewOrderItem("a", 1, dec("9.00"))})
	saveOrder(t, repo, 2, 42, []domain.OrderItem{domain.NewOrderItem("b", 1, dec("100.00"))})
	saveOrder(t, repo, 3, 42, []domain.OrderItem{domain.NewOrderItem("c", 1, dec("25.00"))})

	page, err := store.FindByCustomerID(ctx, 42, usecase.PageRequest{
		Size: 10,
		Sort: &usecase.Sort{Field: "total_amount", Direction: usecase.SortAsc},
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	assert.Equal(t, int64(1), page.Content[0].OrderID)
	assert.Equal(t, int64(3), page.Content[1].OrderID)
	assert.Equal(t, int64(2), page.Content[2].OrderID)
}

func TestCustomerStoreUpsert(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	store := NewCustomerStore(repo)

	absent, err := store.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, absent)

	first, err := store.Save(ctx, domain.NewCustomer(42))
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.False(t, first.CreatedAt.IsZero())

	// Conflicting save is a no-op returning the original row.
	second, err := store.Save(ctx, domain.NewCustomer(42))
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	store := NewOrderStore(repo)

	customer, err := NewCustomerStore(repo).Save(ctx, domain.NewCustomer(42))
	require.NoError(t, err)

	boom := errors.New("abort")
	err = repo.RunInTx(ctx, func(ctx context.Context) error {
		_, err := store.Save(ctx, domain.NewOrder(1001, 42, []domain.OrderItem{
			domain.NewOrderItem("pen", 1, dec("2.00")),
		}), customer)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := store.Exists(ctx, 1001)
	require.NoError(t, err)
	assert.False(t, exists)
}
