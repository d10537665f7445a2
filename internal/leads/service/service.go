// Package service implements lead lookup and recycle-bin operations.
package service

import (
	"context"

	"salescrm_backend/internal/events"
	"salescrm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Store is the persistence surface the service depends on.
type Store interface {
	GetByID(ctx context.Context, id int64, organizationID uuid.UUID) (domain.Lead, error)
	SoftDelete(ctx context.Context, id int64, organizationID uuid.UUID, deletedBy string) error
	Restore(ctx context.Context, id int64, organizationID uuid.UUID) (domain.Lead, error)
	ListDeleted(ctx context.Context, organizationID uuid.UUID) ([]domain.Lead, error)
}

// Service coordinates lead recycle-bin transitions and events.
type Service struct {
	store Store
	bus   events.Bus
}

func New(store Store, bus events.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// GetByID returns a lead, deleted or not. Callers render recycle-bin state
// from the DeletedAt field.
func (s *Service) GetByID(ctx context.Context, id int64, org uuid.UUID) (domain.Lead, error) {
	return s.store.GetByID(ctx, id, org)
}

// SoftDelete moves a lead to the recycle bin. Its activities drop out of
// the org-wide feed but the per-lead timeline stays reachable.
func (s *Service) SoftDelete(ctx context.Context, id int64, org uuid.UUID, actor string) error {
	if err := s.store.SoftDelete(ctx, id, org, actor); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.LeadSoftDeleted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		DeletedBy: actor,
	})
	return nil
}

// Restore brings a lead back from the recycle bin; its activity history
// reappears in the feed unchanged.
func (s *Service) Restore(ctx context.Context, id int64, org uuid.UUID, actor string) (domain.Lead, error) {
	lead, err := s.store.Restore(ctx, id, org)
	if err != nil {
		return domain.Lead{}, err
	}
	s.bus.Publish(ctx, events.LeadRestored{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     id,
		RestoredBy: actor,
	})
	return lead, nil
}

// ListDeleted returns the recycle bin contents.
func (s *Service) ListDeleted(ctx context.Context, org uuid.UUID) ([]domain.Lead, error) {
	return s.store.ListDeleted(ctx, org)
}
