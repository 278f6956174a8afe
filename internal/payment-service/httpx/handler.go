package httpx

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/acmeshop/storefront/internal/payment-service/app"
	pkghttpx "github.com/acmeshop/storefront/internal/pkg/httpx"
)

// signatureHeader is the header Stripe signs webhook deliveries with.
const signatureHeader = "Stripe-Signature"

// maxWebhookBody bounds the raw payload read from the provider.
const maxWebhookBody = 1 << 16

// Handler serves the payment HTTP API.
type Handler struct {
	service *app.Service
}

// NewHandler builds the handler around the payment app service.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// CreateSession returns the provider's redirect URL for an order.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	if req.OrderID == "" {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_argument", "order_id is required")
		return
	}

	url, err := h.service.CreateCheckoutSession(r.Context(), req.OrderID)
	if err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, CreateSessionResponse{URL: url})
}

// ProviderWebhook receives the provider's signed event deliveries. The
// body must stay raw: the signature covers the exact bytes sent.
func (h *Handler) ProviderWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_argument", "could not read webhook body")
		return
	}

	if err := h.service.HandleProviderEvent(r.Context(), payload, r.Header.Get(signatureHeader)); err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
