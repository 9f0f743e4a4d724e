package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/spaceapp/space-api/internal/core/ports"
)

// Option configures the optional collaborators of a service.
type Option func(*collaborators)

type collaborators struct {
	idempotency ports.IdempotencyStore
	audit       ports.AuditRecorder
	now         func() time.Time
}

// WithIdempotencyStore enables Idempotency-Key replay on Create.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(c *collaborators) { c.idempotency = store }
}

// WithAuditRecorder records every successful mutation.
func WithAuditRecorder(rec ports.AuditRecorder) Option {
	return func(c *collaborators) { c.audit = rec }
}

func newCollaborators(opts []Option) collaborators {
	c := collaborators{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// recordAudit is best effort: a failed write is logged and swallowed.
func (c collaborators) recordAudit(ctx context.Context, log zerolog.Logger, entity, action string, id int64, details map[string]any) {
	if c.audit == nil {
		return
	}
	entry := ports.AuditEntry{
		Entity:   entity,
		EntityID: id,
		Action:   action,
		At:       c.now(),
		Details:  details,
	}
	if actor, ok := ports.ActorFrom(ctx); ok {
		entry.Actor = actor.Username
	}
	if err := c.audit.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("entity", entity).Int64("id", id).Str("action", action).Msg("failed to record audit entry")
	}
}

// replayID returns the id remembered for key, if any. Store failures are
// logged and treated as a miss.
func (c collaborators) replayID(ctx context.Context, log zerolog.Logger, scope, key string) (int64, bool) {
	if c.idempotency == nil || key == "" {
		return 0, false
	}
	id, found, err := c.idempotency.Lookup(ctx, idempotencyScope(ctx, scope), key)
	if err != nil {
		log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return 0, false
	}
	return id, found
}

func (c collaborators) remember(ctx context.Context, log zerolog.Logger, scope, key string, id int64) {
	if c.idempotency == nil || key == "" {
		return
	}
	if err := c.idempotency.Remember(ctx, idempotencyScope(ctx, scope), key, id); err != nil {
		log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotency key")
	}
}

// idempotencyScope keeps keys from different callers apart.
func idempotencyScope(ctx context.Context, scope string) string {
	if actor, ok := ports.ActorFrom(ctx); ok {
		return scope + ":" + actor.Username
	}
	return scope
}
