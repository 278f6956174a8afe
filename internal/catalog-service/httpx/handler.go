package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acmeshop/storefront/internal/catalog-service/app"
	"github.com/acmeshop/storefront/internal/catalog-service/domain"
	pkghttpx "github.com/acmeshop/storefront/internal/pkg/httpx"
)

// Handler serves the catalog HTTP API.
type Handler struct {
	service *app.Service
}

// NewHandler builds the handler around the catalog app service.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// ListProducts returns every product, bypassing the cache.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, mapProductToResponse(&products[i]))
	}
	pkghttpx.WriteJSON(w, http.StatusOK, out)
}

// GetProductByID returns a single product via the read-through cache.
func (h *Handler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_argument", "product id is required")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusOK, mapProductToResponse(p))
}

// CreateProduct persists a new product and invalidates its cache key.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttpx.WriteError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		StockQty:    req.StockQty,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		pkghttpx.WriteAppError(w, err)
		return
	}
	pkghttpx.WriteJSON(w, http.StatusCreated, mapProductToResponse(created))
}
