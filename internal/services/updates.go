package services

import (
	"context"
	"errors"
	"time"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

// UpdatesService builds the updates inbox: recently changed upcoming events
// from followed entities that the user has neither added nor dismissed.
type UpdatesService struct {
	store store.Store
	limit int
	now   func() time.Time
}

func NewUpdatesService(s store.Store, limit int) *UpdatesService {
	return &UpdatesService{store: s, limit: limit, now: time.Now}
}

func (s *UpdatesService) List(ctx context.Context, userID string) ([]model.UpdateItem, error) {
	since, err := s.lastSeen(ctx, userID)
	if err != nil {
		return nil, err
	}
	followed, err := s.store.Follows().ListEntityIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followed) == 0 {
		return []model.UpdateItem{}, nil
	}

	events, err := s.store.Events().ListUpdatedSince(ctx, followed, since, s.now(), s.limit)
	if err != nil {
		return nil, err
	}

	going, err := s.store.Commitments().ListGoingEventIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	dismissed, err := s.store.Dismissals().ListEventIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(going)+len(dismissed))
	for _, id := range going {
		skip[id] = true
	}
	for _, id := range dismissed {
		skip[id] = true
	}

	items := make([]model.UpdateItem, 0, len(events))
	for _, ev := range events {
		if skip[ev.EventID] {
			continue
		}
		items = append(items, model.UpdateItem{EventID: ev.EventID, Event: *ev})
	}
	return items, nil
}

func (s *UpdatesService) Count(ctx context.Context, userID string) (int, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *UpdatesService) MarkSeen(ctx context.Context, userID string) error {
	return s.store.Profiles().MarkInboxSeen(ctx, userID, s.now())
}

func (s *UpdatesService) Dismiss(ctx context.Context, userID, eventID string) error {
	return s.store.Dismissals().Dismiss(ctx, userID, eventID)
}

// lastSeen returns the inbox watermark. Users without a profile row or a
// recorded watermark see everything from the epoch onward.
func (s *UpdatesService) lastSeen(ctx context.Context, userID string) (time.Time, error) {
	prof, err := s.store.Profiles().Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return time.Unix(0, 0).UTC(), nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if prof.LastInboxSeenAt == nil {
		return time.Unix(0, 0).UTC(), nil
	}
	return *prof.LastInboxSeenAt, nil
}
