package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

// fakeStore is an in-memory store.Store for service tests. It mirrors the
// postgres driver's filtering and ordering so services can be tested without
// a database.
type fakeStore struct {
	profiles  map[string]*model.Profile
	entities  map[string]*model.Entity
	follows   map[string]map[string]bool
	events    map[string]*model.Event
	commits   map[string]map[string]string
	personal  map[string]*model.PersonalEvent
	dismissed map[string]map[string]bool
	seq       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:  map[string]*model.Profile{},
		entities:  map[string]*model.Entity{},
		follows:   map[string]map[string]bool{},
		events:    map[string]*model.Event{},
		commits:   map[string]map[string]string{},
		personal:  map[string]*model.PersonalEvent{},
		dismissed: map[string]map[string]bool{},
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) Profiles() store.Profiles             { return fakeProfiles{f} }
func (f *fakeStore) Entities() store.Entities             { return fakeEntities{f} }
func (f *fakeStore) Follows() store.Follows               { return fakeFollows{f} }
func (f *fakeStore) Events() store.Events                 { return fakeEvents{f} }
func (f *fakeStore) Commitments() store.Commitments       { return fakeCommitments{f} }
func (f *fakeStore) PersonalEvents() store.PersonalEvents { return fakePersonal{f} }
func (f *fakeStore) Dismissals() store.Dismissals         { return fakeDismissals{f} }

// Test seeding helpers.

func (f *fakeStore) addEntity(id, name string) {
	f.entities[id] = &model.Entity{EntityID: id, Type: model.EntityCrew, Name: name}
}

func (f *fakeStore) addEvent(id, entityID, title string, start, end time.Time) {
	if _, ok := f.entities[entityID]; !ok {
		f.addEntity(entityID, "entity "+entityID)
	}
	f.events[id] = &model.Event{
		EventID:    id,
		EntityID:   entityID,
		Title:      title,
		StartAt:    start,
		EndAt:      end,
		Visibility: model.VisibilityPublic,
		Status:     model.StatusPublished,
	}
}

func (f *fakeStore) addCommitment(userID, eventID string) {
	if f.commits[userID] == nil {
		f.commits[userID] = map[string]string{}
	}
	f.commits[userID][eventID] = model.CommitmentGoing
}

func (f *fakeStore) joined(ev *model.Event) model.EventWithEntity {
	ref := model.EntityRef{EntityID: ev.EntityID}
	if en, ok := f.entities[ev.EntityID]; ok {
		ref.Name = en.Name
		ref.AvatarURL = en.AvatarURL
		ref.Verified = en.Verified
	}
	return model.EventWithEntity{Event: *ev, Entity: ref}
}

func (f *fakeStore) goingEvents(userID string) []*model.Event {
	var evs []*model.Event
	for id, status := range f.commits[userID] {
		if status != model.CommitmentGoing {
			continue
		}
		if ev, ok := f.events[id]; ok {
			evs = append(evs, ev)
		}
	}
	return evs
}

func (f *fakeStore) sharedItem(userID string, ev *model.Event) *model.SharedItem {
	return &model.SharedItem{
		Commitment: model.CalendarCommitment{UserID: userID, EventID: ev.EventID, Status: model.CommitmentGoing},
		Event:      f.joined(ev),
	}
}

type fakeProfiles struct{ f *fakeStore }

func (p fakeProfiles) Get(_ context.Context, userID string) (*model.Profile, error) {
	prof, ok := p.f.profiles[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *prof
	return &cp, nil
}

func (p fakeProfiles) Update(_ context.Context, in *model.Profile) (*model.Profile, error) {
	prof, ok := p.f.profiles[in.UserID]
	if !ok {
		prof = &model.Profile{UserID: in.UserID, CreationTime: time.Now()}
		p.f.profiles[in.UserID] = prof
	}
	if in.DisplayName != nil {
		prof.DisplayName = in.DisplayName
	}
	if in.Handle != nil {
		prof.Handle = in.Handle
	}
	if in.AvatarURL != nil {
		prof.AvatarURL = in.AvatarURL
	}
	cp := *prof
	return &cp, nil
}

func (p fakeProfiles) MarkInboxSeen(_ context.Context, userID string, at time.Time) error {
	prof, ok := p.f.profiles[userID]
	if !ok {
		prof = &model.Profile{UserID: userID, CreationTime: time.Now()}
		p.f.profiles[userID] = prof
	}
	prof.LastInboxSeenAt = &at
	return nil
}

type fakeEntities struct{ f *fakeStore }

func (e fakeEntities) List(context.Context) ([]*model.Entity, error) {
	out := make([]*model.Entity, 0, len(e.f.entities))
	for _, en := range e.f.entities {
		out = append(out, en)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (e fakeEntities) GetByID(_ context.Context, entityID string) (*model.Entity, error) {
	en, ok := e.f.entities[entityID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return en, nil
}

type fakeFollows struct{ f *fakeStore }

func (fl fakeFollows) Follow(_ context.Context, followerID, entityID string) error {
	if fl.f.follows[followerID] == nil {
		fl.f.follows[followerID] = map[string]bool{}
	}
	fl.f.follows[followerID][entityID] = true
	return nil
}

func (fl fakeFollows) Unfollow(_ context.Context, followerID, entityID string) error {
	delete(fl.f.follows[followerID], entityID)
	return nil
}

func (fl fakeFollows) IsFollowing(_ context.Context, followerID, entityID string) (bool, error) {
	return fl.f.follows[followerID][entityID], nil
}

func (fl fakeFollows) ListEntities(_ context.Context, followerID string) ([]*model.Entity, error) {
	var out []*model.Entity
	for id := range fl.f.follows[followerID] {
		if en, ok := fl.f.entities[id]; ok {
			out = append(out, en)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (fl fakeFollows) ListEntityIDs(_ context.Context, followerID string) ([]string, error) {
	ids := make([]string, 0, len(fl.f.follows[followerID]))
	for id := range fl.f.follows[followerID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (fl fakeFollows) CountByFollower(_ context.Context, followerID string) (int, error) {
	return len(fl.f.follows[followerID]), nil
}

type fakeEvents struct{ f *fakeStore }

func (e fakeEvents) Create(_ context.Context, in *model.Event) (*model.Event, error) {
	ev := *in
	ev.EventID = e.f.nextID("ev")
	now := time.Now()
	ev.CreationTime = now
	ev.UpdateTime = now
	e.f.events[ev.EventID] = &ev
	cp := ev
	return &cp, nil
}

func (e fakeEvents) GetByID(_ context.Context, eventID string) (*model.EventWithEntity, error) {
	ev, ok := e.f.events[eventID]
	if !ok {
		return nil, model.ErrNotFound
	}
	j := e.f.joined(ev)
	return &j, nil
}

func (e fakeEvents) GetInterval(_ context.Context, eventID string) (time.Time, time.Time, error) {
	ev, ok := e.f.events[eventID]
	if !ok {
		return time.Time{}, time.Time{}, model.ErrNotFound
	}
	return ev.StartAt, ev.EndAt, nil
}

func (e fakeEvents) ListFeed(_ context.Context, followedEntityIDs []string, now time.Time, limit int) ([]*model.EventWithEntity, error) {
	followed := map[string]bool{}
	for _, id := range followedEntityIDs {
		followed[id] = true
	}
	var out []*model.EventWithEntity
	for _, ev := range e.f.events {
		if ev.Status != model.StatusPublished || ev.StartAt.Before(now) {
			continue
		}
		if ev.Visibility == model.VisibilityFollowers && !followed[ev.EntityID] {
			continue
		}
		j := e.f.joined(ev)
		out = append(out, &j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (e fakeEvents) ListByEntity(_ context.Context, entityID string, now time.Time, limit int) ([]*model.EventWithEntity, error) {
	var out []*model.EventWithEntity
	for _, ev := range e.f.events {
		if ev.EntityID != entityID || ev.Status != model.StatusPublished || ev.StartAt.Before(now) {
			continue
		}
		j := e.f.joined(ev)
		out = append(out, &j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (e fakeEvents) ListUpdatedSince(_ context.Context, entityIDs []string, since, now time.Time, limit int) ([]*model.EventWithEntity, error) {
	wanted := map[string]bool{}
	for _, id := range entityIDs {
		wanted[id] = true
	}
	var out []*model.EventWithEntity
	for _, ev := range e.f.events {
		if !wanted[ev.EntityID] || ev.Status != model.StatusPublished {
			continue
		}
		if ev.StartAt.Before(now) || ev.UpdateTime.Before(since) {
			continue
		}
		j := e.f.joined(ev)
		out = append(out, &j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdateTime.After(out[j].UpdateTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (e fakeEvents) CountAttendees(_ context.Context, eventID string) (int, error) {
	n := 0
	for _, commits := range e.f.commits {
		if commits[eventID] == model.CommitmentGoing {
			n++
		}
	}
	return n, nil
}

func (e fakeEvents) CountAttendeesFor(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(eventIDs))
	for _, id := range eventIDs {
		n, _ := e.CountAttendees(ctx, id)
		if n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (e fakeEvents) CountCreatedBy(_ context.Context, userID string) (int, error) {
	n := 0
	for _, ev := range e.f.events {
		if ev.CreatedBy == userID {
			n++
		}
	}
	return n, nil
}

type fakeCommitments struct{ f *fakeStore }

func (c fakeCommitments) Add(_ context.Context, userID, eventID string) error {
	if c.f.commits[userID] == nil {
		c.f.commits[userID] = map[string]string{}
	}
	c.f.commits[userID][eventID] = model.CommitmentGoing
	return nil
}

func (c fakeCommitments) Remove(_ context.Context, userID, eventID string) error {
	if c.f.commits[userID] != nil {
		if _, ok := c.f.commits[userID][eventID]; ok {
			c.f.commits[userID][eventID] = model.CommitmentRemoved
		}
	}
	return nil
}

func (c fakeCommitments) IsGoing(_ context.Context, userID, eventID string) (bool, error) {
	return c.f.commits[userID][eventID] == model.CommitmentGoing, nil
}

func (c fakeCommitments) ListGoingBetween(_ context.Context, userID string, from, to time.Time) ([]*model.SharedItem, error) {
	var out []*model.SharedItem
	for _, ev := range c.f.goingEvents(userID) {
		if ev.StartAt.Before(from) || ev.StartAt.After(to) {
			continue
		}
		out = append(out, c.f.sharedItem(userID, ev))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event.StartAt.Before(out[j].Event.StartAt) })
	return out, nil
}

func (c fakeCommitments) CurrentAt(_ context.Context, userID string, now time.Time) (*model.SharedItem, error) {
	var best *model.Event
	for _, ev := range c.f.goingEvents(userID) {
		if ev.StartAt.After(now) || ev.EndAt.Before(now) {
			continue
		}
		if best == nil || ev.StartAt.Before(best.StartAt) {
			best = ev
		}
	}
	if best == nil {
		return nil, nil
	}
	return c.f.sharedItem(userID, best), nil
}

func (c fakeCommitments) NextAfter(_ context.Context, userID string, now time.Time) (*model.SharedItem, error) {
	var best *model.Event
	for _, ev := range c.f.goingEvents(userID) {
		if !ev.StartAt.After(now) {
			continue
		}
		if best == nil || ev.StartAt.Before(best.StartAt) {
			best = ev
		}
	}
	if best == nil {
		return nil, nil
	}
	return c.f.sharedItem(userID, best), nil
}

func (c fakeCommitments) ListPastEnding(_ context.Context, userID string, now time.Time, limit int) ([]*model.SharedItem, error) {
	var out []*model.SharedItem
	for _, ev := range c.f.goingEvents(userID) {
		if !ev.EndAt.Before(now) {
			continue
		}
		out = append(out, c.f.sharedItem(userID, ev))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event.EndAt.After(out[j].Event.EndAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c fakeCommitments) ListGoingIntervals(_ context.Context, userID, excludeEventID string) ([]model.ConflictingEvent, error) {
	var out []model.ConflictingEvent
	for _, ev := range c.f.goingEvents(userID) {
		if ev.EventID == excludeEventID {
			continue
		}
		out = append(out, model.ConflictingEvent{EventID: ev.EventID, Title: ev.Title, StartAt: ev.StartAt, EndAt: ev.EndAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (c fakeCommitments) ListGoingEventIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for id, status := range c.f.commits[userID] {
		if status == model.CommitmentGoing {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (c fakeCommitments) CountPast(_ context.Context, userID string, now time.Time) (int, error) {
	n := 0
	for _, ev := range c.f.goingEvents(userID) {
		if ev.EndAt.Before(now) {
			n++
		}
	}
	return n, nil
}

type fakePersonal struct{ f *fakeStore }

func (p fakePersonal) Create(_ context.Context, in *model.PersonalEvent) (*model.PersonalEvent, error) {
	pe := *in
	pe.PersonalEventID = p.f.nextID("pe")
	now := time.Now()
	pe.CreationTime = now
	pe.UpdateTime = now
	p.f.personal[pe.PersonalEventID] = &pe
	cp := pe
	return &cp, nil
}

func (p fakePersonal) GetByID(_ context.Context, userID, personalEventID string) (*model.PersonalEvent, error) {
	pe, ok := p.f.personal[personalEventID]
	if !ok || pe.UserID != userID {
		return nil, model.ErrNotFound
	}
	cp := *pe
	return &cp, nil
}

func (p fakePersonal) Update(ctx context.Context, userID, personalEventID string, upd model.UpdatePersonalEventRequest) (*model.PersonalEvent, error) {
	pe, ok := p.f.personal[personalEventID]
	if !ok || pe.UserID != userID {
		return nil, model.ErrNotFound
	}
	if upd.Title != nil {
		pe.Title = *upd.Title
	}
	if upd.StartAt != nil {
		pe.StartAt = *upd.StartAt
	}
	if upd.EndAt != nil {
		pe.EndAt = *upd.EndAt
	}
	if upd.LocationName != nil {
		pe.LocationName = upd.LocationName
	}
	if upd.Notes != nil {
		pe.Notes = upd.Notes
	}
	if upd.Color != nil {
		pe.Color = *upd.Color
	}
	pe.UpdateTime = time.Now()
	cp := *pe
	return &cp, nil
}

func (p fakePersonal) Delete(_ context.Context, userID, personalEventID string) error {
	pe, ok := p.f.personal[personalEventID]
	if !ok || pe.UserID != userID {
		return model.ErrNotFound
	}
	delete(p.f.personal, personalEventID)
	return nil
}

func (p fakePersonal) userEvents(userID string) []*model.PersonalEvent {
	var out []*model.PersonalEvent
	for _, pe := range p.f.personal {
		if pe.UserID == userID {
			out = append(out, pe)
		}
	}
	return out
}

func (p fakePersonal) ListBetween(_ context.Context, userID string, from, to time.Time) ([]*model.PersonalEvent, error) {
	var out []*model.PersonalEvent
	for _, pe := range p.userEvents(userID) {
		if pe.StartAt.Before(from) || pe.StartAt.After(to) {
			continue
		}
		out = append(out, pe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (p fakePersonal) CurrentAt(_ context.Context, userID string, now time.Time) (*model.PersonalEvent, error) {
	var best *model.PersonalEvent
	for _, pe := range p.userEvents(userID) {
		if pe.StartAt.After(now) || pe.EndAt.Before(now) {
			continue
		}
		if best == nil || pe.StartAt.Before(best.StartAt) {
			best = pe
		}
	}
	return best, nil
}

func (p fakePersonal) NextAfter(_ context.Context, userID string, now time.Time) (*model.PersonalEvent, error) {
	var best *model.PersonalEvent
	for _, pe := range p.userEvents(userID) {
		if !pe.StartAt.After(now) {
			continue
		}
		if best == nil || pe.StartAt.Before(best.StartAt) {
			best = pe
		}
	}
	return best, nil
}

func (p fakePersonal) ListPastEnding(_ context.Context, userID string, now time.Time, limit int) ([]*model.PersonalEvent, error) {
	var out []*model.PersonalEvent
	for _, pe := range p.userEvents(userID) {
		if pe.EndAt.Before(now) {
			out = append(out, pe)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndAt.After(out[j].EndAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (p fakePersonal) ListAll(_ context.Context, userID string) ([]*model.PersonalEvent, error) {
	out := p.userEvents(userID)
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

type fakeDismissals struct{ f *fakeStore }

func (d fakeDismissals) Dismiss(_ context.Context, userID, eventID string) error {
	if d.f.dismissed[userID] == nil {
		d.f.dismissed[userID] = map[string]bool{}
	}
	d.f.dismissed[userID][eventID] = true
	return nil
}

func (d fakeDismissals) ListEventIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for id := range d.f.dismissed[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
