package services

import (
	"context"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

// EntityService covers entity directory listing and the follow graph.
type EntityService struct {
	store store.Store
}

func NewEntityService(s store.Store) *EntityService {
	return &EntityService{store: s}
}

func (s *EntityService) List(ctx context.Context) ([]*model.Entity, error) {
	return s.store.Entities().List(ctx)
}

func (s *EntityService) Get(ctx context.Context, entityID string) (*model.Entity, error) {
	return s.store.Entities().GetByID(ctx, entityID)
}

func (s *EntityService) Followed(ctx context.Context, userID string) ([]*model.Entity, error) {
	return s.store.Follows().ListEntities(ctx, userID)
}

func (s *EntityService) IsFollowing(ctx context.Context, userID, entityID string) (bool, error) {
	return s.store.Follows().IsFollowing(ctx, userID, entityID)
}

// Follow is idempotent. Following a missing entity returns ErrNotFound.
func (s *EntityService) Follow(ctx context.Context, userID, entityID string) error {
	if _, err := s.store.Entities().GetByID(ctx, entityID); err != nil {
		return err
	}
	return s.store.Follows().Follow(ctx, userID, entityID)
}

func (s *EntityService) Unfollow(ctx context.Context, userID, entityID string) error {
	return s.store.Follows().Unfollow(ctx, userID, entityID)
}
