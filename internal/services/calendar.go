package services

import (
	"context"
	"sort"
	"time"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

// CalendarService merges the user's shared commitments and personal events
// into one time-ordered view.
type CalendarService struct {
	store     store.Store
	pastLimit int
	now       func() time.Time
}

func NewCalendarService(s store.Store, pastLimit int) *CalendarService {
	return &CalendarService{store: s, pastLimit: pastLimit, now: time.Now}
}

// dayBounds returns the inclusive [00:00:00.000, 23:59:59.999] window of the
// given calendar day, in the day's own location.
func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}

// ItemsForDay returns the user's calendar items whose event starts on the
// given day, across both sources, ascending by start. Multi-day events appear
// only on their start day. Store failures propagate to the caller.
func (s *CalendarService) ItemsForDay(ctx context.Context, userID string, day time.Time) ([]model.CalendarItem, error) {
	from, to := dayBounds(day)

	shared, err := s.store.Commitments().ListGoingBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	personal, err := s.store.PersonalEvents().ListBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return mergeAscending(shared, personal), nil
}

// mergeAscending tags both sources and sorts by start. The stable sort keeps
// source order on equal starts: shared before personal.
func mergeAscending(shared []*model.SharedItem, personal []*model.PersonalEvent) []model.CalendarItem {
	items := make([]model.CalendarItem, 0, len(shared)+len(personal))
	for _, it := range shared {
		items = append(items, model.NewSharedItem(*it))
	}
	for _, e := range personal {
		items = append(items, model.NewPersonalItem(*e))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartAt().Before(items[j].StartAt())
	})
	return items
}

// CurrentAndNext resolves the event happening right now (start <= now <= end)
// and the soonest upcoming one (start > now). Per slot, the source with the
// earlier start wins; on an exact tie the shared item is preferred.
func (s *CalendarService) CurrentAndNext(ctx context.Context, userID string) (model.CurrentNext, error) {
	now := s.now()

	curShared, err := s.store.Commitments().CurrentAt(ctx, userID, now)
	if err != nil {
		return model.CurrentNext{}, err
	}
	curPersonal, err := s.store.PersonalEvents().CurrentAt(ctx, userID, now)
	if err != nil {
		return model.CurrentNext{}, err
	}
	nextShared, err := s.store.Commitments().NextAfter(ctx, userID, now)
	if err != nil {
		return model.CurrentNext{}, err
	}
	nextPersonal, err := s.store.PersonalEvents().NextAfter(ctx, userID, now)
	if err != nil {
		return model.CurrentNext{}, err
	}

	return model.CurrentNext{
		Current: pickSlot(curShared, curPersonal),
		Next:    pickSlot(nextShared, nextPersonal),
	}, nil
}

func pickSlot(shared *model.SharedItem, personal *model.PersonalEvent) *model.CalendarItem {
	switch {
	case shared == nil && personal == nil:
		return nil
	case shared == nil:
		it := model.NewPersonalItem(*personal)
		return &it
	case personal == nil:
		it := model.NewSharedItem(*shared)
		return &it
	}
	// Both qualify: earlier start wins, ties go to the shared item.
	if !shared.Event.StartAt.After(personal.StartAt) {
		it := model.NewSharedItem(*shared)
		return &it
	}
	it := model.NewPersonalItem(*personal)
	return &it
}

// PastItems returns up to pastLimit items whose end is strictly before now,
// most recently ended first. Each source is capped independently before the
// merge so that neither can starve the other, then the merged list is
// truncated to the overall cap.
func (s *CalendarService) PastItems(ctx context.Context, userID string) ([]model.CalendarItem, error) {
	now := s.now()

	shared, err := s.store.Commitments().ListPastEnding(ctx, userID, now, s.pastLimit)
	if err != nil {
		return nil, err
	}
	personal, err := s.store.PersonalEvents().ListPastEnding(ctx, userID, now, s.pastLimit)
	if err != nil {
		return nil, err
	}

	items := make([]model.CalendarItem, 0, len(shared)+len(personal))
	for _, it := range shared {
		items = append(items, model.NewSharedItem(*it))
	}
	for _, e := range personal {
		items = append(items, model.NewPersonalItem(*e))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EndAt().After(items[j].EndAt())
	})
	if len(items) > s.pastLimit {
		items = items[:s.pastLimit]
	}
	return items, nil
}

// UpcomingItems returns the user's commitments and personal events starting
// within [now, now+horizon], ascending by start. Used by the ICS export.
func (s *CalendarService) UpcomingItems(ctx context.Context, userID string, horizon time.Duration) ([]model.CalendarItem, error) {
	now := s.now()
	to := now.Add(horizon)

	shared, err := s.store.Commitments().ListGoingBetween(ctx, userID, now, to)
	if err != nil {
		return nil, err
	}
	personal, err := s.store.PersonalEvents().ListBetween(ctx, userID, now, to)
	if err != nil {
		return nil, err
	}
	return mergeAscending(shared, personal), nil
}

// Stats aggregates the counters shown on the user's own profile page.
func (s *CalendarService) Stats(ctx context.Context, userID string) (model.UserStats, error) {
	now := s.now()

	attended, err := s.store.Commitments().CountPast(ctx, userID, now)
	if err != nil {
		return model.UserStats{}, err
	}
	followed, err := s.store.Follows().CountByFollower(ctx, userID)
	if err != nil {
		return model.UserStats{}, err
	}
	created, err := s.store.Events().CountCreatedBy(ctx, userID)
	if err != nil {
		return model.UserStats{}, err
	}
	return model.UserStats{AttendedCount: attended, FollowedCount: followed, CreatedCount: created}, nil
}
