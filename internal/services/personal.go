package services

import (
	"context"
	"fmt"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

const defaultPersonalColor = "blue"

// PersonalEventService manages private calendar entries. All operations are
// scoped to the owning user; other users' entries are invisible.
type PersonalEventService struct {
	store store.Store
}

func NewPersonalEventService(s store.Store) *PersonalEventService {
	return &PersonalEventService{store: s}
}

func (s *PersonalEventService) Create(ctx context.Context, userID string, req model.CreatePersonalEventRequest) (*model.PersonalEvent, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if !req.EndAt.After(req.StartAt) {
		return nil, fmt.Errorf("%w: event must end after it starts", model.ErrValidation)
	}
	color := defaultPersonalColor
	if req.Color != nil && *req.Color != "" {
		color = *req.Color
	}
	return s.store.PersonalEvents().Create(ctx, &model.PersonalEvent{
		UserID:       userID,
		Title:        req.Title,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		LocationName: req.LocationName,
		Notes:        req.Notes,
		Color:        color,
	})
}

func (s *PersonalEventService) Get(ctx context.Context, userID, personalEventID string) (*model.PersonalEvent, error) {
	return s.store.PersonalEvents().GetByID(ctx, userID, personalEventID)
}

// Update applies a partial update. When the patch moves either endpoint the
// resulting interval is validated against the stored values.
func (s *PersonalEventService) Update(ctx context.Context, userID, personalEventID string, upd model.UpdatePersonalEventRequest) (*model.PersonalEvent, error) {
	if upd.Title != nil && *upd.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", model.ErrValidation)
	}
	if upd.StartAt != nil || upd.EndAt != nil {
		existing, err := s.store.PersonalEvents().GetByID(ctx, userID, personalEventID)
		if err != nil {
			return nil, err
		}
		start, end := existing.StartAt, existing.EndAt
		if upd.StartAt != nil {
			start = *upd.StartAt
		}
		if upd.EndAt != nil {
			end = *upd.EndAt
		}
		if !end.After(start) {
			return nil, fmt.Errorf("%w: event must end after it starts", model.ErrValidation)
		}
	}
	return s.store.PersonalEvents().Update(ctx, userID, personalEventID, upd)
}

func (s *PersonalEventService) Delete(ctx context.Context, userID, personalEventID string) error {
	return s.store.PersonalEvents().Delete(ctx, userID, personalEventID)
}
