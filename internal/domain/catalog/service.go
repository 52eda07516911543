package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/audit"
)

// Service implements catalog administration on top of a Repository,
// recording every mutation in the audit log.
type Service struct {
	items Repository
	audit audit.Logger
}

// NewService creates a catalog Service.
func NewService(items Repository, audit audit.Logger) *Service {
	return &Service{items: items, audit: audit}
}

// List returns active items, optionally filtered by category. An empty
// category returns the whole catalog.
func (s *Service) List(ctx context.Context, c Category) ([]Item, error) {
	if c == "" {
		return s.items.List(ctx)
	}
	if !c.Valid() {
		return nil, ErrInvalidCategory
	}
	return s.items.ListByCategory(ctx, c)
}

// CreateRequest holds the input for creating a catalog item.
type CreateRequest struct {
	Name        string
	Category    Category
	Price       decimal.Decimal
	Description string
}

// Create validates and persists a new catalog item.
func (s *Service) Create(ctx context.Context, req CreateRequest, createdBy int64) (*Item, error) {
	if !req.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	exists, err := s.items.ExistsActiveName(ctx, req.Category, req.Name)
	if err != nil {
		return nil, errors.Wrap(err, "check duplicate name")
	}
	if exists {
		return nil, ErrDuplicateName
	}

	item := &Item{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price.Round(2),
		Description: req.Description,
		Active:      true,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, errors.Wrap(err, "create catalog item")
	}

	s.audit.LogChange(ctx, audit.Change{
		UserID:     createdBy,
		EntityType: "Lookup",
		EntityID:   item.ID,
		Action:     "Create",
		NewValue:   item.Name,
	})
	return item, nil
}

// UpdateRequest holds the input for updating a catalog item.
type UpdateRequest struct {
	Name        string
	Price       decimal.Decimal
	Description string
}

// Update modifies an active catalog item, auditing each changed field.
// Price changes never affect existing orders: order items carry snapshots.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest, updatedBy int64) (*Item, error) {
	if req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	item, err := s.items.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}

	if item.Name != req.Name {
		s.audit.LogChange(ctx, audit.Change{
			UserID: updatedBy, EntityType: "Lookup", EntityID: id,
			Action: "Update", Field: "Name", OldValue: item.Name, NewValue: req.Name,
		})
	}
	if !item.Price.Equal(req.Price) {
		s.audit.LogChange(ctx, audit.Change{
			UserID: updatedBy, EntityType: "Lookup", EntityID: id,
			Action: "Update", Field: "Price",
			OldValue: item.Price.StringFixed(2), NewValue: req.Price.StringFixed(2),
		})
	}

	item.Name = req.Name
	item.Price = req.Price.Round(2)
	item.Description = req.Description
	if err := s.items.Update(ctx, item); err != nil {
		return nil, errors.Wrap(err, "update catalog item")
	}
	return item, nil
}

// Delete soft-deletes an item. Historical orders keep referencing it.
func (s *Service) Delete(ctx context.Context, id, deletedBy int64) error {
	item, err := s.items.GetActive(ctx, id)
	if err != nil {
		return err
	}
	if err := s.items.Deactivate(ctx, id); err != nil {
		return errors.Wrap(err, "deactivate catalog item")
	}
	s.audit.LogChange(ctx, audit.Change{
		UserID: deletedBy, EntityType: "Lookup", EntityID: id,
		Action: "Delete", OldValue: item.Name,
	})
	return nil
}
