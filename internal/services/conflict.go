package services

import (
	"context"
	"errors"
	"time"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

// ConflictService answers speculative "would this clash?" questions before a
// user commits to an event.
type ConflictService struct {
	store store.Store
}

func NewConflictService(s store.Store) *ConflictService {
	return &ConflictService{store: s}
}

// overlaps reports whether [s1,e1) and [s2,e2) share any time. Back-to-back
// intervals (one ends exactly when the other starts) do not overlap.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// Check compares the target event's interval against every other commitment
// and personal event the user has. A missing target yields an empty report,
// not an error, so a stale event id never blocks the add flow.
func (s *ConflictService) Check(ctx context.Context, userID, eventID string) (model.ConflictReport, error) {
	report := model.ConflictReport{Conflicts: []model.ConflictingEvent{}}

	start, end, err := s.store.Events().GetInterval(ctx, eventID)
	if errors.Is(err, model.ErrNotFound) {
		return report, nil
	}
	if err != nil {
		return model.ConflictReport{}, err
	}

	shared, err := s.store.Commitments().ListGoingIntervals(ctx, userID, eventID)
	if err != nil {
		return model.ConflictReport{}, err
	}
	for _, c := range shared {
		if overlaps(c.StartAt, c.EndAt, start, end) {
			report.Conflicts = append(report.Conflicts, c)
		}
	}

	personal, err := s.store.PersonalEvents().ListAll(ctx, userID)
	if err != nil {
		return model.ConflictReport{}, err
	}
	for _, p := range personal {
		if overlaps(p.StartAt, p.EndAt, start, end) {
			report.Conflicts = append(report.Conflicts, model.ConflictingEvent{
				EventID: p.PersonalEventID,
				Title:   p.Title,
				StartAt: p.StartAt,
				EndAt:   p.EndAt,
			})
		}
	}

	report.HasConflict = len(report.Conflicts) > 0
	return report, nil
}
