package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iagoomes/btg-orders-challenge/internal/orders/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/orders/{orderId}/total", handler.GetOrderTotal)
		r.Get("/customers/{customerId}/orders", handler.GetCustomerOrders)
		r.Get("/customers/{customerId}/orders/count", handler.GetCustomerOrderCount)
	})

	return r
}
