package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCustomerOrderCountDegenerateIDIsZeroWithoutStoreAccess(t *testing.T) {
	orders := newStubOrderStore()
	orders.count = 7
	uc := NewGetCustomerOrderCount(orders)

	for _, id := range []int64{0, -3} {
		count, err := uc.Execute(context.Background(), id)
		require.NoError(t, err)
		assert.Zero(t, count)
	}
	assert.Zero(t, orders.countCalls)
}

func TestGetCustomerOrderCountDelegatesToStore(t *testing.T) {
	orders := newStubOrderStore()
	orders.count = 12
	uc := NewGetCustomerOrderCount(orders)

	count, err := uc.Execute(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.Equal(t, 1, orders.countCalls)
}
