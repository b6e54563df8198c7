package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campusbeat/campusbeat/internal/model"
	"github.com/campusbeat/campusbeat/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Unique test identifiers
	userID := "u-" + uuid.New().String()
	entityID := "en-" + uuid.New().String()

	// Seed an entity directly through the Events aggregate's parent table is
	// not exposed; drivers are expected to accept pre-seeded entities, so the
	// suite provisions one via the entity seeding hook below.
	seedEntity(t, s, entityID)

	// Follows: idempotent follow, listing, unfollow
	if err := s.Follows().Follow(ctx, userID, entityID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := s.Follows().Follow(ctx, userID, entityID); err != nil {
		t.Fatalf("Follow (repeat) should be a no-op: %v", err)
	}
	if ok, err := s.Follows().IsFollowing(ctx, userID, entityID); err != nil || !ok {
		t.Fatalf("IsFollowing: ok=%v err=%v", ok, err)
	}
	if n, err := s.Follows().CountByFollower(ctx, userID); err != nil || n != 1 {
		t.Fatalf("CountByFollower: n=%d err=%v", n, err)
	}

	// Events
	base := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	ev, err := s.Events().Create(ctx, &model.Event{
		EntityID:   entityID,
		Title:      "lecture",
		StartAt:    base,
		EndAt:      base.Add(time.Hour),
		Visibility: model.VisibilityPublic,
		Status:     model.StatusPublished,
		CreatedBy:  userID,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if ev.EventID == "" {
		t.Fatal("CreateEvent: empty event id")
	}
	if got, err := s.Events().GetByID(ctx, ev.EventID); err != nil || got.Entity.EntityID != entityID {
		t.Fatalf("GetEvent: got=%v err=%v", got, err)
	}
	if start, end, err := s.Events().GetInterval(ctx, ev.EventID); err != nil || !start.Equal(base) || !end.Equal(base.Add(time.Hour)) {
		t.Fatalf("GetInterval: start=%v end=%v err=%v", start, end, err)
	}
	if _, _, err := s.Events().GetInterval(ctx, "missing-"+uuid.New().String()); err != model.ErrNotFound {
		t.Fatalf("GetInterval missing: want ErrNotFound, got %v", err)
	}
	if feed, err := s.Events().ListFeed(ctx, nil, time.Now().UTC(), 50); err != nil || len(feed) == 0 {
		t.Fatalf("ListFeed: n=%d err=%v", len(feed), err)
	}

	// Commitments: idempotent add, re-add after remove restores going
	if err := s.Commitments().Add(ctx, userID, ev.EventID); err != nil {
		t.Fatalf("AddCommitment: %v", err)
	}
	if err := s.Commitments().Add(ctx, userID, ev.EventID); err != nil {
		t.Fatalf("AddCommitment (repeat) should upsert: %v", err)
	}
	if ok, err := s.Commitments().IsGoing(ctx, userID, ev.EventID); err != nil || !ok {
		t.Fatalf("IsGoing after add: ok=%v err=%v", ok, err)
	}
	if err := s.Commitments().Remove(ctx, userID, ev.EventID); err != nil {
		t.Fatalf("RemoveCommitment: %v", err)
	}
	if ok, _ := s.Commitments().IsGoing(ctx, userID, ev.EventID); ok {
		t.Fatal("IsGoing after remove: still going")
	}
	if err := s.Commitments().Add(ctx, userID, ev.EventID); err != nil {
		t.Fatalf("re-Add after remove: %v", err)
	}
	if ok, _ := s.Commitments().IsGoing(ctx, userID, ev.EventID); !ok {
		t.Fatal("re-Add after remove did not restore going")
	}

	// Range and slot queries
	from := base.Add(-time.Hour)
	to := base.Add(4 * time.Hour)
	items, err := s.Commitments().ListGoingBetween(ctx, userID, from, to)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListGoingBetween: n=%d err=%v", len(items), err)
	}
	if next, err := s.Commitments().NextAfter(ctx, userID, time.Now().UTC()); err != nil || next == nil || next.Event.EventID != ev.EventID {
		t.Fatalf("NextAfter: got=%v err=%v", next, err)
	}
	if cur, err := s.Commitments().CurrentAt(ctx, userID, time.Now().UTC()); err != nil || cur != nil {
		t.Fatalf("CurrentAt should be empty before start: got=%v err=%v", cur, err)
	}
	if ids, err := s.Commitments().ListGoingEventIDs(ctx, userID); err != nil || len(ids) != 1 {
		t.Fatalf("ListGoingEventIDs: ids=%v err=%v", ids, err)
	}
	if ivs, err := s.Commitments().ListGoingIntervals(ctx, userID, ev.EventID); err != nil || len(ivs) != 0 {
		t.Fatalf("ListGoingIntervals should exclude the target: ivs=%v err=%v", ivs, err)
	}

	// Personal events
	pe, err := s.PersonalEvents().Create(ctx, &model.PersonalEvent{
		UserID:  userID,
		Title:   "gym",
		StartAt: base.Add(2 * time.Hour),
		EndAt:   base.Add(3 * time.Hour),
		Color:   "green",
	})
	if err != nil {
		t.Fatalf("CreatePersonalEvent: %v", err)
	}
	newTitle := "gym session"
	if upd, err := s.PersonalEvents().Update(ctx, userID, pe.PersonalEventID, model.UpdatePersonalEventRequest{Title: &newTitle}); err != nil || upd.Title != newTitle {
		t.Fatalf("UpdatePersonalEvent: got=%v err=%v", upd, err)
	}
	if lst, err := s.PersonalEvents().ListBetween(ctx, userID, from, to); err != nil || len(lst) != 1 {
		t.Fatalf("ListBetween: n=%d err=%v", len(lst), err)
	}
	if err := s.PersonalEvents().Delete(ctx, userID, pe.PersonalEventID); err != nil {
		t.Fatalf("DeletePersonalEvent: %v", err)
	}
	if err := s.PersonalEvents().Delete(ctx, userID, pe.PersonalEventID); err != model.ErrNotFound {
		t.Fatalf("DeletePersonalEvent (gone): want ErrNotFound, got %v", err)
	}

	// Dismissals: idempotent
	if err := s.Dismissals().Dismiss(ctx, userID, ev.EventID); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if err := s.Dismissals().Dismiss(ctx, userID, ev.EventID); err != nil {
		t.Fatalf("Dismiss (repeat) should be a no-op: %v", err)
	}
	if ids, err := s.Dismissals().ListEventIDs(ctx, userID); err != nil || len(ids) != 1 {
		t.Fatalf("ListDismissed: ids=%v err=%v", ids, err)
	}

	// Profiles: upsert on first write, watermark survives
	name := "Alex"
	if prof, err := s.Profiles().Update(ctx, &model.Profile{UserID: userID, DisplayName: &name}); err != nil || prof.DisplayName == nil || *prof.DisplayName != name {
		t.Fatalf("UpdateProfile: got=%v err=%v", prof, err)
	}
	seenAt := time.Now().UTC().Truncate(time.Second)
	if err := s.Profiles().MarkInboxSeen(ctx, userID, seenAt); err != nil {
		t.Fatalf("MarkInboxSeen: %v", err)
	}
	if prof, err := s.Profiles().Get(ctx, userID); err != nil || prof.LastInboxSeenAt == nil || !prof.LastInboxSeenAt.Equal(seenAt) {
		t.Fatalf("GetProfile after MarkInboxSeen: got=%v err=%v", prof, err)
	}
	if _, err := s.Profiles().Get(ctx, "missing-"+uuid.New().String()); err != model.ErrNotFound {
		t.Fatalf("GetProfile missing: want ErrNotFound, got %v", err)
	}

	// Unfollow
	if err := s.Follows().Unfollow(ctx, userID, entityID); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if ok, _ := s.Follows().IsFollowing(ctx, userID, entityID); ok {
		t.Fatal("still following after unfollow")
	}
}

// EntitySeeder is implemented by drivers that can provision entities for the
// suite. Entities are reference data with no create API on store.Store.
type EntitySeeder interface {
	SeedEntity(ctx context.Context, e *model.Entity) error
}

func seedEntity(t *testing.T, s store.Store, entityID string) {
	t.Helper()
	seeder, ok := s.(EntitySeeder)
	if !ok {
		t.Skip("store does not support entity seeding; skipping compliance suite")
	}
	if err := seeder.SeedEntity(context.Background(), &model.Entity{
		EntityID: entityID,
		Type:     model.EntityCrew,
		Name:     "test crew " + entityID[:8],
		Verified: true,
	}); err != nil {
		t.Fatalf("seed entity: %v", err)
	}
}
