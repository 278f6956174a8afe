package httpx

import (
	"github.com/shopspring/decimal"

	"github.com/acmeshop/storefront/internal/catalog-service/domain"
)

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	StockQty    int             `json:"stock_qty"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	StockQty    int             `json:"stock_qty"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

func mapProductToResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		StockQty:    p.StockQty,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
	}
}
