package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

// Status is the order lifecycle state. Transitions are monotonic:
// PENDING moves to exactly one of the terminal states and never back.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusFailed
}

// ParseStatus normalises a client-supplied status string. Only the
// terminal states are valid transition targets.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(raw)) {
	case StatusPaid:
		return StatusPaid, nil
	case StatusFailed:
		return StatusFailed, nil
	default:
		return "", apperr.New(apperr.KindInvalidArgument, "invalid order status %q", raw)
	}
}

// Order references exactly one product by id. TotalAmount is snapshotted
// from the catalog price at creation time and never recomputed; later
// price changes do not touch existing orders.
type Order struct {
	ID          string
	ProductID   string
	Quantity    int
	TotalAmount decimal.Decimal
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
