// Package audit records who changed what across admin-mutable entities.
package audit

import (
	"context"
	"time"
)

// Change describes a single audited mutation. Field, OldValue and NewValue
// are empty for create/delete actions that audit the whole entity.
type Change struct {
	UserID     int64
	EntityType string
	EntityID   int64
	Action     string
	Field      string
	OldValue   string
	NewValue   string
}

// Entry is a persisted audit record.
type Entry struct {
	ID        int64
	Change
	CreatedAt time.Time
}

// Logger is the write side of the audit trail. Implementations must not fail
// the calling operation: auditing is best effort.
type Logger interface {
	LogChange(ctx context.Context, c Change)
}

// Repository persists and reads audit entries.
type Repository interface {
	Insert(ctx context.Context, c Change) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
