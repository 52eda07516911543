package runtimeconfig

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/shakehq/milkshake-api/internal/domain/audit"
)

// Service implements the admin configuration API.
type Service struct {
	repo  Repository
	audit audit.Logger
}

// NewService creates a configuration Service.
func NewService(repo Repository, audit audit.Logger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns all configuration entries ordered by key.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// Get returns a single entry by key.
func (s *Service) Get(ctx context.Context, key string) (*Entry, error) {
	return s.repo.GetByKey(ctx, key)
}

// Update validates the new value against the entry's data type, audits the
// change, and persists it.
func (s *Service) Update(ctx context.Context, key, value string, updatedBy int64) error {
	entry, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return err
	}
	if err := ValidateValue(entry.DataType, value); err != nil {
		return err
	}

	s.audit.LogChange(ctx, audit.Change{
		UserID:     updatedBy,
		EntityType: "Configuration",
		EntityID:   entry.ID,
		Action:     "Update",
		Field:      entry.Key,
		OldValue:   entry.Value,
		NewValue:   value,
	})

	if err := s.repo.UpdateValue(ctx, key, value, updatedBy); err != nil {
		return errors.Wrap(err, "update configuration")
	}
	return nil
}
