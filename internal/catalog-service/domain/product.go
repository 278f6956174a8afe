package domain

import (
	"github.com/shopspring/decimal"

	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

// Product is the catalog record. The catalog service is its only writer;
// the price here is authoritative and is never recomputed elsewhere once
// an order has snapshotted it.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	StockQty    int
	Category    string
	ImageURL    string
}

// Validate checks the fields a client supplies on create.
func (p *Product) Validate() error {
	if p.Name == "" {
		return apperr.New(apperr.KindInvalidArgument, "product name is required")
	}
	if p.Price.IsNegative() {
		return apperr.New(apperr.KindInvalidArgument, "product price must not be negative")
	}
	if p.StockQty < 0 {
		return apperr.New(apperr.KindInvalidArgument, "product stock must not be negative")
	}
	return nil
}
