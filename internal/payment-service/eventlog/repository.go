package eventlog

import "context"

// Repository is the port for persisting event log entries. The app
// layer treats it as nil-safe: a missing repository simply disables
// the audit trail.
type Repository interface {
	// Save appends an entry. The log is append-only; deliveries are
	// never updated in place.
	Save(ctx context.Context, entry *Entry) error
	// ListByReference returns the entries recorded for an order
	// reference, oldest first.
	ListByReference(ctx context.Context, reference string) ([]Entry, error)
}
