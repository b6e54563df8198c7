package services

import (
	"context"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

// ProfileService reads and edits the caller's own account record.
type ProfileService struct {
	store store.Store
}

func NewProfileService(s store.Store) *ProfileService {
	return &ProfileService{store: s}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	return s.store.Profiles().Get(ctx, userID)
}

func (s *ProfileService) Update(ctx context.Context, userID string, displayName, handle, avatarURL *string) (*model.Profile, error) {
	return s.store.Profiles().Update(ctx, &model.Profile{
		UserID:      userID,
		DisplayName: displayName,
		Handle:      handle,
		AvatarURL:   avatarURL,
	})
}
