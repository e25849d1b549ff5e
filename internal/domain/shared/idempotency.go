package shared

import (
	"context"
	"time"
)

// IdempotencyStore guards mutating requests against replays. A request
// carrying an Idempotency-Key is processed only on the first sighting of
// the key within the TTL window.
type IdempotencyStore interface {
	// MarkProcessed marks a key as seen. Returns true if the key was
	// newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// IsProcessed reports whether the key has been seen within its TTL.
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}
