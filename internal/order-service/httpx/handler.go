package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acmeshop/storefront/internal/order-service/app"
	"github.com/acmeshop/storefront/internal/order-service/domain"
	pkghttpx "github.com/acmeshop/storefront/internal/pkg/httpx"
)

// Handler serves the order HTTP API.
type Handler struct {
	service *app.Service
}

// NewHandler builds the handler around the order app service.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// CreateOrder snapshots the product price and persists a PENDING order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	order, err := h.service.Create(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

// ListOrders returns every order.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, mapOrderToResponse(&orders[i]))
	}
	pkghttpx.WriteJSON(w, http.StatusOK, out)
}

// GetOrderByID returns a single order.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// UpdateOrderStatus applies a terminal transition. A repeat of an
// already-applied transition answers 204 like the first delivery did.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	status, err := domain.ParseStatus(req.NewStatus)
	if err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}

	if err := h.service.SetStatus(r.Context(), id, status); err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
