package httpx

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderTotalResponse struct {
	OrderID  int64           `json:"orderId"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

type OrderItemSummary struct {
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderSummary struct {
	OrderID     int64              `json:"orderId"`
	CustomerID  int64              `json:"customerId"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	ItemsCount  int                `json:"itemsCount"`
	CreatedAt   time.Time          `json:"createdAt"`
	Items       []OrderItemSummary `json:"items"`
}

type CustomerOrdersResponse struct {
	CustomerID    int64          `json:"customerId"`
	Orders        []OrderSummary `json:"orders"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	CurrentPage   int            `json:"currentPage"`
	PageSize      int            `json:"pageSize"`
}

type CustomerOrderCountResponse struct {
	CustomerID int64 `json:"customerId"`
	OrderCount int64 `json:"orderCount"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
