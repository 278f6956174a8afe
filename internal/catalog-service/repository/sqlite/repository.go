// Package sqlite provides the SQLite-backed catalog repository.
//
// WAL mode is enabled on Open so concurrent readers never block the
// single writer connection.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/acmeshop/storefront/internal/catalog-service/domain"
	"github.com/acmeshop/storefront/internal/pkg/apperr"

	// Register the pure-Go SQLite driver; no CGO needed.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',

    -- Fixed-point decimal stored as TEXT so no precision is lost.
    price       TEXT NOT NULL,

    stock_qty   INTEGER NOT NULL DEFAULT 0,
    category    TEXT NOT NULL DEFAULT '',
    image_url   TEXT NOT NULL DEFAULT ''
);
`

// Repository is the SQLite implementation of repository.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at path and applies the
// schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
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

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
		SELECT id, name, description, price, stock_qty, category, image_url
		FROM   products
		WHERE  id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "product %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get product %q: %w", id, err)
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
		SELECT id, name, description, price, stock_qty, category, image_url
		FROM   products
		ORDER  BY name, id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	return products, nil
}

func (r *Repository) Create(ctx context.Context, p *domain.Product) error {
	const q = `
		INSERT INTO products (id, name, description, price, stock_qty, category, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.Price.String(),
		p.StockQty,
		p.Category,
		p.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("sqlite: create product %q: %w", p.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.StockQty, &p.Category, &p.ImageURL); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = parsed
	return &p, nil
}
