package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidOrder rejects a malformed or incomplete order at ingestion.
// It is local and non-retryable: redelivery of the same message would
// fail the exact same way.
var ErrInvalidOrder = errors.New("invalid order data")

// ErrOrderNotFound signals an explicit absence on order lookups.
var ErrOrderNotFound = errors.New("order not found")

// CustomerNotFoundError is raised by the paginated customer-orders query
// when the customer does not exist or the supplied identity is degenerate.
// It is a query-side condition, distinct from ErrInvalidOrder, so the HTTP
// boundary can map it to a not-found response.
type CustomerNotFoundError struct {
	CustomerID int64
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %d not found", e.CustomerID)
}
