// Package eventlog defines the audit trail of provider webhook events.
//
// Every event that passes signature verification is appended here with
// the outcome of its reconciliation, so a stuck order can be traced
// back to the exact deliveries the provider made, and joined with the
// distributed trace via the trace_id field.
package eventlog

import "time"

// Outcome records what the reconciliation pipeline did with an event.
type Outcome string

const (
	// OutcomeIgnored: event kind other than checkout completion.
	OutcomeIgnored Outcome = "IGNORED"
	// OutcomeNoReference: completed event with an absent reference.
	OutcomeNoReference Outcome = "NO_REFERENCE"
	// OutcomeBadReference: reference did not parse as an order id.
	OutcomeBadReference Outcome = "BAD_REFERENCE"
	// OutcomeUnknownOrder: well-formed reference, no such order.
	OutcomeUnknownOrder Outcome = "UNKNOWN_ORDER"
	// OutcomeFulfilled: the order was driven to PAID (or already was).
	OutcomeFulfilled Outcome = "FULFILLED"
	// OutcomeDeferred: the order service was unavailable; the webhook
	// response asked the provider to retry.
	OutcomeDeferred Outcome = "DEFERRED"
)

// Entry is one row in the payment_events table.
type Entry struct {
	// EventID is the provider-assigned event identifier.
	EventID string

	// Type is the provider event kind as delivered.
	Type string

	// Reference is the raw reference field, possibly empty or invalid.
	Reference string

	// Outcome is what the pipeline decided.
	Outcome Outcome

	// Error holds the failure detail for DEFERRED entries.
	Error string

	// TraceID and SpanID tie the entry to the active OTel span.
	TraceID string
	SpanID  string

	// ReceivedAt is the wall-clock time the delivery was processed.
	ReceivedAt time.Time
}
