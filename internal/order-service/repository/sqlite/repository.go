// Package sqlite provides the SQLite-backed order repository.
//
// The terminal-state guard lives in the UPDATE statement itself, so
// concurrent webhook re-deliveries race on the database's atomicity
// rather than on an application lock.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acmeshop/storefront/internal/order-service/domain"
	"github.com/acmeshop/storefront/internal/pkg/apperr"

	// Register the pure-Go SQLite driver; no CGO needed.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id           TEXT PRIMARY KEY,
    product_id   TEXT NOT NULL,
    quantity     INTEGER NOT NULL,

    -- Fixed-point decimal stored as TEXT so no precision is lost.
    total_amount TEXT NOT NULL,

    status       TEXT NOT NULL,

    -- RFC3339 stored as TEXT, SQLite idiom.
    created_at   TEXT NOT NULL,
    updated_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
`

// Repository is the SQLite implementation of repository.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the order database at path and applies the
// schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Create(ctx context.Context, o *domain.Order) error {
	const q = `
		INSERT INTO orders (id, product_id, quantity, total_amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		o.ID,
		o.ProductID,
		o.Quantity,
		o.TotalAmount.String(),
		string(o.Status),
		formatTime(o.CreatedAt),
		formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create order %q: %w", o.ID, err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
		SELECT id, product_id, quantity, total_amount, status, created_at, updated_at
		FROM   orders
		WHERE  id = ?`

	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "order %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %q: %w", id, err)
	}
	return o, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	const q = `
		SELECT id, product_id, quantity, total_amount, status, created_at, updated_at
		FROM   orders
		ORDER  BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus transitions a PENDING order. The WHERE clause keeps the
// state machine monotonic: an order already in a terminal state is left
// untouched and the call reports success.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error {
	const q = `
		UPDATE orders
		SET    status = ?, updated_at = ?
		WHERE  id = ? AND status = ?`

	res, err := r.db.ExecContext(ctx, q, string(status), formatTime(at), id, string(domain.StatusPending))
	if err != nil {
		return fmt.Errorf("sqlite: update order %q status: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update order %q status: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing matched: either the order does not exist or it is already
	// terminal. Only the former is an error.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var total, status, createdAt, updatedAt string
	if err := row.Scan(&o.ID, &o.ProductID, &o.Quantity, &total, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse total %q: %w", total, err)
	}
	o.TotalAmount = parsed
	o.Status = domain.Status(status)

	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.999999999Z")
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
