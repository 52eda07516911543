package restaurant

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/shakehq/milkshake-api/internal/domain/audit"
)

// Service implements restaurant administration.
type Service struct {
	restaurants Repository
	audit       audit.Logger
}

// NewService creates a restaurant Service.
func NewService(restaurants Repository, audit audit.Logger) *Service {
	return &Service{restaurants: restaurants, audit: audit}
}

// ListActive returns active restaurants.
func (s *Service) ListActive(ctx context.Context) ([]Restaurant, error) {
	return s.restaurants.ListActive(ctx)
}

// Get returns one restaurant by id.
func (s *Service) Get(ctx context.Context, id int64) (*Restaurant, error) {
	return s.restaurants.GetByID(ctx, id)
}

// UpsertRequest holds restaurant fields for create and update.
type UpsertRequest struct {
	Name        string
	Address     string
	PhoneNumber string
	OpeningTime Minutes
	ClosingTime Minutes
}

// Create validates hours and persists a new restaurant.
func (s *Service) Create(ctx context.Context, req UpsertRequest, createdBy int64) (*Restaurant, error) {
	if req.OpeningTime >= req.ClosingTime {
		return nil, ErrInvalidHours
	}

	r := &Restaurant{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		Active:      true,
	}
	if err := s.restaurants.Create(ctx, r); err != nil {
		return nil, errors.Wrap(err, "create restaurant")
	}

	s.audit.LogChange(ctx, audit.Change{
		UserID: createdBy, EntityType: "Restaurant", EntityID: r.ID,
		Action: "Create", NewValue: r.Name,
	})
	return r, nil
}

// Update validates hours and persists changes, auditing name and address
// edits.
func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest, updatedBy int64) (*Restaurant, error) {
	if req.OpeningTime >= req.ClosingTime {
		return nil, ErrInvalidHours
	}

	r, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.Name != req.Name {
		s.audit.LogChange(ctx, audit.Change{
			UserID: updatedBy, EntityType: "Restaurant", EntityID: id,
			Action: "Update", Field: "Name", OldValue: r.Name, NewValue: req.Name,
		})
	}
	if r.Address != req.Address {
		s.audit.LogChange(ctx, audit.Change{
			UserID: updatedBy, EntityType: "Restaurant", EntityID: id,
			Action: "Update", Field: "Address", OldValue: r.Address, NewValue: req.Address,
		})
	}

	r.Name = req.Name
	r.Address = req.Address
	r.PhoneNumber = req.PhoneNumber
	r.OpeningTime = req.OpeningTime
	r.ClosingTime = req.ClosingTime

	if err := s.restaurants.Update(ctx, r); err != nil {
		return nil, errors.Wrap(err, "update restaurant")
	}
	return r, nil
}
