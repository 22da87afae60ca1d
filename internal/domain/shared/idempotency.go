package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers submitted movement references so the same
// external document (order, delivery note) cannot book stock twice.
type IdempotencyStore interface {
	// MarkProcessed marks a reference as processed with a TTL.
	// Returns true if the reference was newly marked, false if it was
	// already present.
	MarkProcessed(ctx context.Context, reference string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether a reference has already been processed
	IsProcessed(ctx context.Context, reference string) (bool, error)

	// Release forgets a reference so it can be submitted again. Callers
	// use it to hand back a claim when the operation it guarded failed.
	Release(ctx context.Context, reference string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for reference deduplication
type IdempotencyConfig struct {
	// TTL is how long a processed reference stays remembered.
	// After this duration the same reference is accepted again.
	TTL time.Duration

	// Enabled toggles deduplication entirely
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
