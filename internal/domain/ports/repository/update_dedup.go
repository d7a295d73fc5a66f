package repository

import (
	"context"
)

// UpdateDedupStore remembers which provider update IDs were already accepted,
// so a redelivered webhook call is acknowledged without being processed twice.
type UpdateDedupStore interface {
	// MarkSeen records updateID and reports whether this is the first time it was seen.
	MarkSeen(ctx context.Context, updateID int) (bool, error)
	Close() error
}
