package audit

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

var _ Logger = (*Recorder)(nil)

// Recorder implements Logger by writing entries through a Repository.
// Write failures are logged and swallowed so they never fail the mutation
// being audited.
type Recorder struct {
	repo Repository
}

// NewRecorder creates a Recorder backed by the given Repository.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

// LogChange records the change, logging (not returning) any storage error.
func (r *Recorder) LogChange(ctx context.Context, c Change) {
	if err := r.repo.Insert(ctx, c); err != nil {
		zctx.From(ctx).Error("audit write failed",
			zap.String("entity_type", c.EntityType),
			zap.Int64("entity_id", c.EntityID),
			zap.String("action", c.Action),
			zap.Error(err),
		)
	}
}

// Discard is a Logger that drops all changes. Useful in tests.
type Discard struct{}

func (Discard) LogChange(context.Context, Change) {}
