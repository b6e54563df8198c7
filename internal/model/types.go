package model

import "time"

// Profile is the account record for an authenticated user.
type Profile struct {
	UserID          string     `json:"userId"`
	DisplayName     *string    `json:"displayName,omitempty"`
	Handle          *string    `json:"handle,omitempty"`
	AvatarURL       *string    `json:"avatarUrl,omitempty"`
	LastInboxSeenAt *time.Time `json:"lastInboxSeenAt,omitempty"`
	CreationTime    time.Time  `json:"creationTime"`
}

// Entity is a followable publisher of events: a professor, crew or business.
type Entity struct {
	EntityID     string    `json:"entityId"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Handle       *string   `json:"handle,omitempty"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	CoverURL     *string   `json:"coverUrl,omitempty"`
	Verified     bool      `json:"verified"`
	CreationTime time.Time `json:"creationTime"`
}

// Entity types.
const (
	EntityProfessor = "professor"
	EntityCrew      = "crew"
	EntityBusiness  = "business"
)

// EntityRef is the compact entity display carried on joined event rows.
type EntityRef struct {
	EntityID  string  `json:"entityId"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Verified  bool    `json:"verified"`
}

// Event is a shared event published by an entity.
type Event struct {
	EventID       string    `json:"eventId"`
	EntityID      string    `json:"entityId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	LocationName  *string   `json:"locationName,omitempty"`
	Visibility    string    `json:"visibility"`
	Status        string    `json:"status"`
	CreatedBy     string    `json:"createdBy"`
	CreationTime  time.Time `json:"creationTime"`
	UpdateTime    time.Time `json:"updateTime"`
}

// Event visibility and status values.
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"

	StatusDraft     = "draft"
	StatusPublished = "published"
)

// EventWithEntity joins an event with its owning entity's display fields.
type EventWithEntity struct {
	Event
	Entity EntityRef `json:"entity"`
}

// FeedEvent is an event in the discovery feed, annotated with its attendee count.
type FeedEvent struct {
	EventWithEntity
	AttendeesCount int `json:"attendeesCount"`
}

// PersonalEvent is a private calendar entry owned by a single user.
type PersonalEvent struct {
	PersonalEventID string    `json:"personalEventId"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	LocationName    *string   `json:"locationName,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	Color           string    `json:"color"`
	CreationTime    time.Time `json:"creationTime"`
	UpdateTime      time.Time `json:"updateTime"`
}

// CalendarCommitment is the join record marking a user as going to a shared event.
type CalendarCommitment struct {
	UserID  string    `json:"userId"`
	EventID string    `json:"eventId"`
	Status  string    `json:"status"`
	AddedAt time.Time `json:"addedAt"`
}

// Commitment status values.
const (
	CommitmentGoing   = "going"
	CommitmentRemoved = "removed"
)

// SharedItem is a commitment joined with its event, as read from the store.
type SharedItem struct {
	Commitment CalendarCommitment `json:"commitment"`
	Event      EventWithEntity    `json:"event"`
}

// ItemKind discriminates the two calendar item sources.
type ItemKind string

const (
	KindShared   ItemKind = "shared"
	KindPersonal ItemKind = "personal"
)

// CalendarItem is the tagged union over shared and personal calendar entries.
// Exactly one of Shared/Personal is set, matching Kind.
type CalendarItem struct {
	Kind     ItemKind       `json:"kind"`
	Shared   *SharedItem    `json:"shared,omitempty"`
	Personal *PersonalEvent `json:"personal,omitempty"`
}

// NewSharedItem wraps a commitment/event pair as a shared calendar item.
func NewSharedItem(it SharedItem) CalendarItem {
	return CalendarItem{Kind: KindShared, Shared: &it}
}

// NewPersonalItem wraps a personal event as a personal calendar item.
func NewPersonalItem(e PersonalEvent) CalendarItem {
	return CalendarItem{Kind: KindPersonal, Personal: &e}
}

// StartAt returns the item's event start regardless of source.
func (it CalendarItem) StartAt() time.Time {
	if it.Kind == KindShared {
		return it.Shared.Event.StartAt
	}
	return it.Personal.StartAt
}

// EndAt returns the item's event end regardless of source.
func (it CalendarItem) EndAt() time.Time {
	if it.Kind == KindShared {
		return it.Shared.Event.EndAt
	}
	return it.Personal.EndAt
}

// Title returns the item's event title regardless of source.
func (it CalendarItem) Title() string {
	if it.Kind == KindShared {
		return it.Shared.Event.Title
	}
	return it.Personal.Title
}

// CurrentNext pairs the event happening now with the soonest upcoming one.
// Either slot may be nil.
type CurrentNext struct {
	Current *CalendarItem `json:"current"`
	Next    *CalendarItem `json:"next"`
}

// UpdateItem is one entry in the updates inbox.
type UpdateItem struct {
	EventID string          `json:"eventId"`
	Event   EventWithEntity `json:"event"`
}

// ConflictingEvent summarizes an existing commitment that overlaps a candidate.
type ConflictingEvent struct {
	EventID string    `json:"eventId"`
	Title   string    `json:"title"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

// ConflictReport is the result of a speculative conflict check.
type ConflictReport struct {
	HasConflict bool               `json:"hasConflict"`
	Conflicts   []ConflictingEvent `json:"conflicts"`
}

// UserStats aggregates profile counters shown on the user's own page.
type UserStats struct {
	AttendedCount int `json:"attendedCount"`
	FollowedCount int `json:"followedCount"`
	CreatedCount  int `json:"createdCount"`
}

// CreateEventRequest carries the fields needed to publish a shared event.
type CreateEventRequest struct {
	EntityID      string    `json:"entityId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty"`
	StartAt       time.Time `json:"startAt"`
	EndAt         time.Time `json:"endAt"`
	LocationName  *string   `json:"locationName,omitempty"`
	Visibility    string    `json:"visibility"`
}

// CreatePersonalEventRequest carries the fields needed to create a personal event.
type CreatePersonalEventRequest struct {
	Title        string    `json:"title"`
	StartAt      time.Time `json:"startAt"`
	EndAt        time.Time `json:"endAt"`
	LocationName *string   `json:"locationName,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	Color        *string   `json:"color,omitempty"`
}

// UpdatePersonalEventRequest carries a partial update; nil fields are untouched.
type UpdatePersonalEventRequest struct {
	Title        *string    `json:"title,omitempty"`
	StartAt      *time.Time `json:"startAt,omitempty"`
	EndAt        *time.Time `json:"endAt,omitempty"`
	LocationName *string    `json:"locationName,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	Color        *string    `json:"color,omitempty"`
}
