package eventlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// NewEntry builds an Entry stamped with the wall clock and with the
// trace_id/span_id of the active OpenTelemetry span in ctx, if any.
// In unit tests without a span both fields stay empty.
func NewEntry(ctx context.Context, eventID, eventType, reference string, outcome Outcome, cause error) *Entry {
	entry := &Entry{
		EventID:    eventID,
		Type:       eventType,
		Reference:  reference,
		Outcome:    outcome,
		ReceivedAt: time.Now().UTC(),
	}
	if cause != nil {
		entry.Error = cause.Error()
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
