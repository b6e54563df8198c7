package store

import (
	"context"
	"time"

	"github.com/campusbeat/campusbeat/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres).
type Store interface {
	Profiles() Profiles
	Entities() Entities
	Follows() Follows
	Events() Events
	Commitments() Commitments
	PersonalEvents() PersonalEvents
	Dismissals() Dismissals
}

type Profiles interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) (*model.Profile, error)
	MarkInboxSeen(ctx context.Context, userID string, at time.Time) error
}

type Entities interface {
	List(ctx context.Context) ([]*model.Entity, error)
	GetByID(ctx context.Context, entityID string) (*model.Entity, error)
}

type Follows interface {
	// Follow is idempotent: following an already-followed entity is a no-op.
	Follow(ctx context.Context, followerID, entityID string) error
	Unfollow(ctx context.Context, followerID, entityID string) error
	IsFollowing(ctx context.Context, followerID, entityID string) (bool, error)
	ListEntities(ctx context.Context, followerID string) ([]*model.Entity, error)
	ListEntityIDs(ctx context.Context, followerID string) ([]string, error)
	CountByFollower(ctx context.Context, followerID string) (int, error)
}

type Events interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, eventID string) (*model.EventWithEntity, error)
	// GetInterval is the point lookup used by the conflict check.
	GetInterval(ctx context.Context, eventID string) (start, end time.Time, err error)
	// ListFeed returns published upcoming events visible to a user who follows
	// the given entities: public events plus follower-only events from those
	// entities, ascending by start.
	ListFeed(ctx context.Context, followedEntityIDs []string, now time.Time, limit int) ([]*model.EventWithEntity, error)
	ListByEntity(ctx context.Context, entityID string, now time.Time, limit int) ([]*model.EventWithEntity, error)
	// ListUpdatedSince returns published upcoming events from the given
	// entities whose update time is at or after since, descending by update time.
	ListUpdatedSince(ctx context.Context, entityIDs []string, since, now time.Time, limit int) ([]*model.EventWithEntity, error)
	CountAttendees(ctx context.Context, eventID string) (int, error)
	CountAttendeesFor(ctx context.Context, eventIDs []string) (map[string]int, error)
	CountCreatedBy(ctx context.Context, userID string) (int, error)
}

type Commitments interface {
	// Add upserts the commitment to status going. Re-adding after removal
	// flips the existing row back rather than inserting a duplicate.
	Add(ctx context.Context, userID, eventID string) error
	Remove(ctx context.Context, userID, eventID string) error
	IsGoing(ctx context.Context, userID, eventID string) (bool, error)
	// ListGoingBetween returns going commitments joined with event and entity
	// whose event start falls within [from, to], ascending by start.
	// Commitments whose joined event is missing are excluded.
	ListGoingBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.SharedItem, error)
	// CurrentAt returns the earliest-starting going commitment with
	// start <= now <= end, or nil when none.
	CurrentAt(ctx context.Context, userID string, now time.Time) (*model.SharedItem, error)
	// NextAfter returns the earliest-starting going commitment with
	// start > now, or nil when none.
	NextAfter(ctx context.Context, userID string, now time.Time) (*model.SharedItem, error)
	// ListPastEnding returns up to limit going commitments with end < now,
	// descending by end.
	ListPastEnding(ctx context.Context, userID string, now time.Time, limit int) ([]*model.SharedItem, error)
	// ListGoingIntervals returns the intervals of every going commitment,
	// excluding excludeEventID, for conflict checking.
	ListGoingIntervals(ctx context.Context, userID, excludeEventID string) ([]model.ConflictingEvent, error)
	ListGoingEventIDs(ctx context.Context, userID string) ([]string, error)
	CountPast(ctx context.Context, userID string, now time.Time) (int, error)
}

type PersonalEvents interface {
	Create(ctx context.Context, e *model.PersonalEvent) (*model.PersonalEvent, error)
	GetByID(ctx context.Context, userID, personalEventID string) (*model.PersonalEvent, error)
	Update(ctx context.Context, userID, personalEventID string, upd model.UpdatePersonalEventRequest) (*model.PersonalEvent, error)
	Delete(ctx context.Context, userID, personalEventID string) error
	// ListBetween returns the user's personal events whose start falls within
	// [from, to], ascending by start.
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.PersonalEvent, error)
	CurrentAt(ctx context.Context, userID string, now time.Time) (*model.PersonalEvent, error)
	NextAfter(ctx context.Context, userID string, now time.Time) (*model.PersonalEvent, error)
	ListPastEnding(ctx context.Context, userID string, now time.Time, limit int) ([]*model.PersonalEvent, error)
	ListAll(ctx context.Context, userID string) ([]*model.PersonalEvent, error)
}

type Dismissals interface {
	// Dismiss is idempotent: dismissing an already-dismissed event is a no-op.
	Dismiss(ctx context.Context, userID, eventID string) error
	ListEventIDs(ctx context.Context, userID string) ([]string, error)
}
