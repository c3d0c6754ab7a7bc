package cli

import (
	"github.com/google/uuid"
)

// TraceIDGenerator produces the trace_id attached to JSON responses.
//
// Every command invocation gets one id. With --verbose the same id is
// attached to the log records, so a response can be matched with the
// diagnostics that produced it.
type TraceIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 trace ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, so ids of later
// invocations sort after earlier ones.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Format: "0190a6f2-3c1d-7b4e-8f00-123456789abc" (36 characters)
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
