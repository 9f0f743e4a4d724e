package ports

import (
	"context"
	"time"
)

// AuditEntry describes one successful mutation.
type AuditEntry struct {
	Entity   string
	EntityID int64
	Action   string
	Actor    string
	At       time.Time
	Details  map[string]any
}

// AuditRecorder stores audit entries. Failures are reported but never abort
// the mutation that produced the entry.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}
