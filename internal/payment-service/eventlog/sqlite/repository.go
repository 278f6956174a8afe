// Package sqlite provides the SQLite-backed event log repository.
//
// WAL mode is enabled on Open so a status query never blocks the
// webhook handler's append.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/acmeshop/storefront/internal/payment-service/eventlog"

	// Register the pure-Go SQLite driver; no CGO needed.
	_ "modernc.org/sqlite"
)

// The table is append-only: one immutable row per verified delivery,
// duplicates included. That is the point: at-least-once delivery means
// the same event id may legitimately appear more than once.
const schema = `
CREATE TABLE IF NOT EXISTS payment_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Provider-assigned event identifier. Not UNIQUE: redeliveries of
    -- the same event are recorded as separate rows.
    event_id    TEXT NOT NULL,

    event_type  TEXT NOT NULL,

    -- Raw reference field as delivered; may be empty or malformed.
    reference   TEXT NOT NULL DEFAULT '',

    outcome     TEXT NOT NULL,
    error       TEXT NOT NULL DEFAULT '',

    -- W3C trace/span ids from the active OTel span.
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    received_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payment_events_reference ON payment_events(reference, received_at);
CREATE INDEX IF NOT EXISTS idx_payment_events_trace_id ON payment_events(trace_id);
`

// Repository is the SQLite implementation of eventlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the event log database at path and applies
// the schema.
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

// Save appends an entry. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *eventlog.Entry) error {
	const q = `
		INSERT INTO payment_events
			(event_id, event_type, reference, outcome, error, trace_id, span_id, received_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.EventID,
		entry.Type,
		entry.Reference,
		string(entry.Outcome),
		entry.Error,
		entry.TraceID,
		entry.SpanID,
		entry.ReceivedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save payment event %q: %w", entry.EventID, err)
	}
	return nil
}

// ListByReference returns the deliveries recorded for an order
// reference, oldest first.
func (r *Repository) ListByReference(ctx context.Context, reference string) ([]eventlog.Entry, error) {
	const q = `
		SELECT event_id, event_type, reference, outcome, error, trace_id, span_id, received_at
		FROM   payment_events
		WHERE  reference = ?
		ORDER  BY received_at, id`

	rows, err := r.db.QueryContext(ctx, q, reference)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list payment events for %q: %w", reference, err)
	}
	defer rows.Close()

	entries := make([]eventlog.Entry, 0)
	for rows.Next() {
		var entry eventlog.Entry
		var outcome, receivedAt string
		if err := rows.Scan(&entry.EventID, &entry.Type, &entry.Reference, &outcome, &entry.Error, &entry.TraceID, &entry.SpanID, &receivedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan payment event: %w", err)
		}
		entry.Outcome = eventlog.Outcome(outcome)
		if entry.ReceivedAt, err = time.Parse(time.RFC3339Nano, receivedAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse time %q: %w", receivedAt, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list payment events for %q: %w", reference, err)
	}
	return entries, nil
}
