package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/domain"
	"github.com/iagoomes/btg-orders-challenge/internal/orders/infra/httpx/middlewares"
	"github.com/iagoomes/btg-orders-challenge/internal/orders/usecase"
	"github.com/iagoomes/btg-orders-challenge/internal/pkg/cache"
)

// Currency reported on order totals; amounts are stored currency-less.
const totalCurrency = "BRL"

// orderTotalCacheTTL bounds staleness of cached total responses. Totals
// are append-only (orders are never updated after ingestion), so a short
// TTL is purely about bounding redis memory.
const orderTotalCacheTTL = 5 * time.Minute

// OrderTotalGetter is satisfied by usecase.GetOrderTotal.
type OrderTotalGetter interface {
	Execute(ctx context.Context, orderID int64) (*domain.Order, error)
}

// CustomerOrdersGetter is satisfied by usecase.GetCustomerOrders.
type CustomerOrdersGetter interface {
	Execute(ctx context.Context, customerID int64, req usecase.PageRequest) (*usecase.OrderPage, error)
}

// CustomerOrderCounter is satisfied by usecase.GetCustomerOrderCount.
type CustomerOrderCounter interface {
	Execute(ctx context.Context, customerID int64) (int64, error)
}

// Handler serves the read-side REST API over the query use cases.
type Handler struct {
	orderTotal     OrderTotalGetter
	customerOrders CustomerOrdersGetter
	orderCount     CustomerOrderCounter
	cache          cache.Cache // nil-safe: caching skipped if nil
}

// NewHandler wires the handler. cache may be nil — order totals are then
// recomputed on every request.
func NewHandler(
	orderTotal OrderTotalGetter,
	customerOrders CustomerOrdersGetter,
	orderCount CustomerOrderCounter,
	c cache.Cache,
) *Handler {
	return &Handler{
		orderTotal:     orderTotal,
		customerOrders: customerOrders,
		orderCount:     orderCount,
		cache:          c,
	}
}

// GetOrderTotal returns the recomputed total of a single order.
func (h *Handler) GetOrderTotal(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_order_id", "orderId must be an integer")
		return
	}

	ctx := r.Context()

	if body, ok := h.cachedTotal(ctx, orderID); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
		return
	}

	order, err := h.orderTotal.Execute(ctx, orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "order total lookup failed",
			"order_id", orderID, "request_id", middlewares.RequestID(ctx), "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	resp := OrderTotalResponse{
		OrderID:  order.OrderID,
		Total:    order.TotalAmount,
		Currency: totalCurrency,
	}
	h.storeTotal(ctx, orderID, resp)
	writeJSON(w, http.StatusOK, resp)
}

// GetCustomerOrders returns one page of a customer's order history.
func (h *Handler) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_customer_id", "customerId must be an integer")
		return
	}

	pageReq, err := parsePageRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_page_request", err.Error())
		return
	}

	ctx := r.Context()

	page, err := h.customerOrders.Execute(ctx, customerID, pageReq)
	var notFound *domain.CustomerNotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, "customer_not_found", notFound.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "customer orders lookup failed",
			"customer_id", customerID, "request_id", middlewares.RequestID(ctx), "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	writeJSON(w, http.StatusOK, mapOrderPage(customerID, page))
}

// GetCustomerOrderCount returns the number of orders a customer owns.
func (h *Handler) GetCustomerOrderCount(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_customer_id", "customerId must be an integer")
		return
	}

	ctx := r.Context()

	count, err := h.orderCount.Execute(ctx, customerID)
	if err != nil {
		slog.ErrorContext(ctx, "order count lookup failed",
			"customer_id", customerID, "request_id", middlewares.RequestID(ctx), "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	writeJSON(w, http.StatusOK, CustomerOrderCountResponse{
		CustomerID: customerID,
		OrderCount: count,
	})
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "UP"})
}

func (h *Handler) cachedTotal(ctx context.Context, orderID int64) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	key := h.cache.GenerateKey("order_total", strconv.FormatInt(orderID, 10))
	body, err := h.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		return "", false
	}
	return body, body != ""
}

func (h *Handler) storeTotal(ctx context.Context, orderID int64, resp OrderTotalResponse) {
	if h.cache == nil {
		return
	}
	body, err := json.Marshal(resp)
	if err != nil {
		return
	}
	key := h.cache.GenerateKey("order_total", strconv.FormatInt(orderID, 10))
	if err := h.cache.Set(ctx, key, string(body), orderTotalCacheTTL); err != nil {
		slog.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

// parsePageRequest reads ?page=&size=&sort= where sort follows the
// "field,direction" convention (e.g. "created_at,desc"). Unknown sort
// fields are rejected here so a typo surfaces as a 400 instead of being
// silently re-sorted. Absent sort is left nil so the query use case
// applies its default.
func parsePageRequest(r *http.Request) (usecase.PageRequest, error) {
	req := usecase.PageRequest{Page: 0, Size: 10}
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return req, errors.New("page must be a non-negative integer")
		}
		req.Page = page
	}

	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return req, errors.New("size must be a positive integer")
		}
		req.Size = size
	}

	if v := q.Get("sort"); v != "" {
		field, direction, _ := strings.Cut(v, ",")
		switch field {
		case "created_at", "order_id", "total_amount":
		case "":
			return req, errors.New("sort must name a field")
		default:
			return req, fmt.Errorf("sort field %q is not sortable", field)
		}
		sort := usecase.Sort{Field: field, Direction: usecase.SortAsc}
		if strings.EqualFold(direction, "desc") {
			sort.Direction = usecase.SortDesc
		}
		req.Sort = &sort
	}

	return req, nil
}

func mapOrderPage(customerID int64, page *usecase.OrderPage) CustomerOrdersResponse {
	orders := make([]OrderSummary, 0, len(page.Content))
	for _, order := range page.Content {
		orders = append(orders, mapOrderSummary(order))
	}
	return CustomerOrdersResponse{
		CustomerID:    customerID,
		Orders:        orders,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		CurrentPage:   page.Number,
		PageSize:      page.Size,
	}
}

func mapOrderSummary(order *domain.Order) OrderSummary {
	items := make([]OrderItemSummary, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemSummary{
			Product:  item.Product,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return OrderSummary{
		OrderID:     order.OrderID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		ItemsCount:  order.ItemsCount,
		CreatedAt:   order.CreatedAt,
		Items:       items,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
