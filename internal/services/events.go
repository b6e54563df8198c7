package services

import (
	"context"
	"fmt"
	"time"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

const entityEventsLimit = 20

// EventService covers the discovery feed, event detail and the add/remove
// calendar flow for shared events.
type EventService struct {
	store     store.Store
	feedLimit int
	now       func() time.Time
}

func NewEventService(s store.Store, feedLimit int) *EventService {
	return &EventService{store: s, feedLimit: feedLimit, now: time.Now}
}

// Feed returns upcoming published events visible to the user: public events
// plus follower-only events from entities they follow, each annotated with
// its attendee count.
func (s *EventService) Feed(ctx context.Context, userID string) ([]*model.FeedEvent, error) {
	followed, err := s.store.Follows().ListEntityIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.store.Events().ListFeed(ctx, followed, s.now(), s.feedLimit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.EventID)
	}
	counts, err := s.store.Events().CountAttendeesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	feed := make([]*model.FeedEvent, 0, len(events))
	for _, ev := range events {
		feed = append(feed, &model.FeedEvent{EventWithEntity: *ev, AttendeesCount: counts[ev.EventID]})
	}
	return feed, nil
}

func (s *EventService) Get(ctx context.Context, eventID string) (*model.EventWithEntity, error) {
	return s.store.Events().GetByID(ctx, eventID)
}

func (s *EventService) ListByEntity(ctx context.Context, entityID string) ([]*model.EventWithEntity, error) {
	return s.store.Events().ListByEntity(ctx, entityID, s.now(), entityEventsLimit)
}

func (s *EventService) AttendeesCount(ctx context.Context, eventID string) (int, error) {
	return s.store.Events().CountAttendees(ctx, eventID)
}

func (s *EventService) IsOnCalendar(ctx context.Context, userID, eventID string) (bool, error) {
	return s.store.Commitments().IsGoing(ctx, userID, eventID)
}

// AddToCalendar marks the user as going. Adding twice is a no-op and adding
// after a removal restores the commitment.
func (s *EventService) AddToCalendar(ctx context.Context, userID, eventID string) error {
	if _, _, err := s.store.Events().GetInterval(ctx, eventID); err != nil {
		return err
	}
	return s.store.Commitments().Add(ctx, userID, eventID)
}

func (s *EventService) RemoveFromCalendar(ctx context.Context, userID, eventID string) error {
	return s.store.Commitments().Remove(ctx, userID, eventID)
}

// Create publishes a shared event. Users may only publish on their own
// entity page.
func (s *EventService) Create(ctx context.Context, userID string, req model.CreateEventRequest) (*model.Event, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if !req.EndAt.After(req.StartAt) {
		return nil, fmt.Errorf("%w: event must end after it starts", model.ErrValidation)
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	if visibility != model.VisibilityPublic && visibility != model.VisibilityFollowers {
		return nil, fmt.Errorf("%w: unknown visibility %q", model.ErrValidation, visibility)
	}
	if req.EntityID != userID {
		return nil, fmt.Errorf("%w: events can only be published on your own page", model.ErrForbidden)
	}
	if _, err := s.store.Entities().GetByID(ctx, req.EntityID); err != nil {
		return nil, err
	}

	return s.store.Events().Create(ctx, &model.Event{
		EntityID:      req.EntityID,
		Title:         req.Title,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		LocationName:  req.LocationName,
		Visibility:    visibility,
		Status:        model.StatusPublished,
		CreatedBy:     userID,
	})
}
