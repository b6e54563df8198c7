package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campusbeat/campusbeat/internal/model"
)

func seedUpdatesFixture(f *fakeStore, now time.Time) {
	f.addEntity("en-crew", "film crew")
	f.addEntity("en-other", "quiet society")
	f.follows["u1"] = map[string]bool{"en-crew": true}

	touch := func(id string, updated time.Time) {
		ev := f.events[id]
		ev.UpdateTime = updated
	}
	f.addEvent("ev-fresh", "en-crew", "screening moved", now.Add(24*time.Hour), now.Add(26*time.Hour))
	touch("ev-fresh", now.Add(-time.Hour))
	f.addEvent("ev-stale", "en-crew", "old news", now.Add(24*time.Hour), now.Add(25*time.Hour))
	touch("ev-stale", now.Add(-72*time.Hour))
	f.addEvent("ev-unfollowed", "en-other", "not followed", now.Add(24*time.Hour), now.Add(25*time.Hour))
	touch("ev-unfollowed", now.Add(-time.Hour))
	f.addEvent("ev-going", "en-crew", "already going", now.Add(30*time.Hour), now.Add(31*time.Hour))
	touch("ev-going", now.Add(-time.Hour))
	f.addCommitment("u1", "ev-going")
	f.addEvent("ev-dismissed", "en-crew", "dismissed", now.Add(40*time.Hour), now.Add(41*time.Hour))
	touch("ev-dismissed", now.Add(-time.Hour))
	f.dismissed["u1"] = map[string]bool{"ev-dismissed": true}
}

func TestUpdatesService_List_FiltersSeenGoingAndDismissed(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	svc := NewUpdatesService(f, 20)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	seedUpdatesFixture(f, now)
	seen := now.Add(-48 * time.Hour)
	f.profiles["u1"] = &model.Profile{UserID: "u1", LastInboxSeenAt: &seen}

	items, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "ev-fresh", items[0].EventID)
	require.Equal(t, "screening moved", items[0].Event.Title)

	n, err := svc.Count(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestUpdatesService_List_NoProfileSeesEverything(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	svc := NewUpdatesService(f, 20)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	seedUpdatesFixture(f, now)

	// Without a watermark even the stale update shows up.
	items, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "ev-fresh", items[0].EventID)
	require.Equal(t, "ev-stale", items[1].EventID)
}

func TestUpdatesService_List_NoFollowsIsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	svc := NewUpdatesService(f, 20)

	items, err := svc.List(ctx, "u-lonely")
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestUpdatesService_MarkSeenClearsInbox(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	svc := NewUpdatesService(f, 20)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	seedUpdatesFixture(f, now)

	require.NoError(t, svc.MarkSeen(ctx, "u1"))
	items, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestUpdatesService_DismissHidesEvent(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	svc := NewUpdatesService(f, 20)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	seedUpdatesFixture(f, now)

	require.NoError(t, svc.Dismiss(ctx, "u1", "ev-fresh"))
	require.NoError(t, svc.Dismiss(ctx, "u1", "ev-fresh"))
	items, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	for _, it := range items {
		require.NotEqual(t, "ev-fresh", it.EventID)
	}
}
