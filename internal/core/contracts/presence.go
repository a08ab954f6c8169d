package contracts

import (
	"context"
	"time"
)

// PresenceStore tracks which doctors are currently reachable for calls.
// Backed by a TTL-scored Redis ZSET.
type PresenceStore interface {
	// MarkOnline refreshes the doctor's presence entry.
	MarkOnline(ctx context.Context, doctorID string, ttl time.Duration) error
	// IsOnline reports whether the doctor checked in recently.
	IsOnline(ctx context.Context, doctorID string) (bool, error)
	// ListOnline returns the ids of all doctors currently online.
	ListOnline(ctx context.Context) ([]string, error)
}
