package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so redelivered events are
// dropped instead of posted twice
type IdempotencyStore interface {
	// MarkProcessed records the event ID with a TTL. It returns true when the
	// ID was newly recorded and false when it had already been seen.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID has an unexpired record
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases the store's resources
	Close() error
}

// IdempotencyConfig controls duplicate detection for event handlers
type IdempotencyConfig struct {
	// TTL bounds how long an event ID is remembered; after it expires the
	// same ID would be processed again
	TTL time.Duration

	// Enabled turns the duplicate check off entirely when false
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
