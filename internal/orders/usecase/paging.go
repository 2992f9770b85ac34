package usecase

import "github.com/iagoomes/btg-orders-challenge/internal/orders/domain"

// SortDirection is the direction of a page sort.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Sort names the column a page is ordered by.
type Sort struct {
	Field     string
	Direction SortDirection
}

// PageRequest is the paging cursor handed to the store. A nil Sort means
// the caller expressed no preference; the query use case fills in the
// default before the store ever sees the request.
type PageRequest struct {
	Page int
	Size int
	Sort *Sort
}

// Sorted reports whether the caller supplied an explicit sort order.
func (r PageRequest) Sorted() bool {
	return r.Sort != nil
}

// OrderPage is the result envelope computed by the store: one page of
// content plus the totals needed to render pagination controls.
type OrderPage struct {
	Content       []*domain.Order
	TotalElements int64
	TotalPages    int
	Number        int
	Size          int
}
