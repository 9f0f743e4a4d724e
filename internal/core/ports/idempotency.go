package ports

import "context"

// IdempotencyStore remembers which entity id was created for a client key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (id int64, found bool, err error)
	Remember(ctx context.Context, scope, key string, id int64) error
}
