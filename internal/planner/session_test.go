package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/tests/testutil"
)

// seedItinerary populates the fake store with one trip, two days, and
// three activities and returns the seeded records.
func seedItinerary(t *testing.T, srv *testutil.TripServer) (model.Trip, []model.Day, []model.Activity) {
	t.Helper()

	trip := srv.SeedTrip(model.Trip{
		Title:     "Lisbon",
		DateStart: "2026-06-01",
		DateEnd:   "2026-06-02",
		Currency:  "EUR",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	d1 := srv.SeedDay(model.Day{TripID: trip.ID, Date: "2026-06-01", Index: 1})
	d2 := srv.SeedDay(model.Day{TripID: trip.ID, Date: "2026-06-02", Index: 2})

	a1 := srv.SeedActivity(model.Activity{
		TripID: trip.ID, DayID: d1.ID, Title: "Tram 28", OrderIndex: 0,
	})
	a2 := srv.SeedActivity(model.Activity{
		TripID: trip.ID, DayID: d1.ID, Title: "Time Out Market", OrderIndex: 1,
	})
	b1 := srv.SeedActivity(model.Activity{
		TripID: trip.ID, DayID: d2.ID, Title: "Belem Tower", OrderIndex: 0,
	})

	return trip, []model.Day{d1, d2}, []model.Activity{a1, a2, b1}
}

func TestSessionFetchWritesThroughToCache(t *testing.T) {
	srv := testutil.NewTripServer(t)
	trip, days, _ := seedItinerary(t, srv)

	cache := testutil.NewTestStore(t)
	session := NewSession(api.NewClient(srv.URL(), ""), cache)

	snap, offline, err := session.Fetch(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.False(t, offline)
	require.NotNil(t, snap)
	assert.Len(t, snap.Days, 2)
	assert.Len(t, snap.Activities, 3)

	cached, err := cache.GetSnapshot(context.Background(), trip.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, trip.Title, cached.Trip.Title)
	assert.Len(t, cached.Days, len(days))
}

func TestSessionFetchFallsBackToCache(t *testing.T) {
	srv := testutil.NewTripServer(t)
	trip, _, _ := seedItinerary(t, srv)

	cache := testutil.NewTestStore(t)

	online := NewSession(api.NewClient(srv.URL(), ""), cache)
	_, _, err := online.Fetch(context.Background(), trip.ID)
	require.NoError(t, err)

	// Same cache, unreachable store.
	offline := NewSession(api.NewClient("http://127.0.0.1:1", ""), cache)
	snap, fromCache, err := offline.Fetch(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.True(t, fromCache)
	require.NotNil(t, snap)
	assert.Equal(t, trip.ID, snap.Trip.ID)
	assert.Len(t, snap.Activities, 3)
}

func TestSessionFetchNotFoundIsTerminal(t *testing.T) {
	srv := testutil.NewTripServer(t)
	trip, _, _ := seedItinerary(t, srv)

	cache := testutil.NewTestStore(t)
	session := NewSession(api.NewClient(srv.URL(), ""), cache)

	// Cache the trip, then delete it at the store. The deletion must win
	// over the stale cache entry.
	_, _, err := session.Fetch(context.Background(), trip.ID)
	require.NoError(t, err)
	require.NoError(t,
		api.NewClient(srv.URL(), "").DeleteTrip(context.Background(), trip.ID))

	snap, fromCache, err := session.Fetch(context.Background(), trip.ID)
	assert.Nil(t, snap)
	assert.False(t, fromCache)
	assert.True(t, api.IsNotFound(err))
}

func TestSessionTripsFallsBackToCache(t *testing.T) {
	srv := testutil.NewTripServer(t)
	seedItinerary(t, srv)

	cache := testutil.NewTestStore(t)

	online := NewSession(api.NewClient(srv.URL(), ""), cache)
	trips, fromCache, err := online.Trips(context.Background())
	require.NoError(t, err)
	assert.False(t, fromCache)
	require.Len(t, trips, 1)

	offline := NewSession(api.NewClient("http://127.0.0.1:1", ""), cache)
	trips, fromCache, err = offline.Trips(context.Background())
	require.NoError(t, err)
	assert.True(t, fromCache)
	require.Len(t, trips, 1)
	assert.Equal(t, "Lisbon", trips[0].Title)
}

func TestSessionCommitPersistsBatch(t *testing.T) {
	srv := testutil.NewTripServer(t)
	trip, days, activities := seedItinerary(t, srv)

	session := NewSession(api.NewClient(srv.URL(), ""), nil)
	snap, _, err := session.Fetch(context.Background(), trip.ID)
	require.NoError(t, err)

	engine := NewEngine()
	engine.ApplySnapshot(snap)

	// Drag the first activity of day 1 into day 2.
	engine.BeginMove(activities[0].ID)
	engine.MoveOver(activities[0].ID, days[1].ID)
	engine.EndMove()

	recovery, err := session.Commit(context.Background(), trip.ID, engine.ReorderBatch())
	require.NoError(t, err)
	assert.Nil(t, recovery)
	engine.MarkCommitted()

	dayID, orderIndex, ok := srv.ActivityState(activities[0].ID)
	require.True(t, ok)
	assert.Equal(t, days[1].ID, dayID)
	assert.Equal(t, 1, orderIndex)

	// The vacated day was renumbered in the same batch.
	dayID, orderIndex, ok = srv.ActivityState(activities[1].ID)
	require.True(t, ok)
	assert.Equal(t, days[0].ID, dayID)
	assert.Equal(t, 0, orderIndex)
}

func TestSessionCommitFailureReloadsFromStore(t *testing.T) {
	srv := testutil.NewTripServer(t)
	trip, days, activities := seedItinerary(t, srv)

	session := NewSession(api.NewClient(srv.URL(), ""), nil)
	snap, _, err := session.Fetch(context.Background(), trip.ID)
	require.NoError(t, err)

	engine := NewEngine()
	engine.ApplySnapshot(snap)
	engine.MoveOver(activities[0].ID, days[1].ID)

	srv.FailReorder = true
	recovery, err := session.Commit(context.Background(), trip.ID, engine.ReorderBatch())
	require.Error(t, err)
	require.NotNil(t, recovery)
	assert.Equal(t, 1, srv.ReorderCalls)

	// The optimistic ordering is discarded wholesale in favor of the
	// store's state.
	engine.ApplySnapshot(recovery)
	day1 := engine.DayActivities(days[0].ID)
	require.Len(t, day1, 2)
	assert.Equal(t, activities[0].ID, day1[0].ID)
	assert.Equal(t, activities[1].ID, day1[1].ID)
	assert.False(t, engine.Dirty())
}

func TestSessionCommitFailureWithUnreachableStore(t *testing.T) {
	session := NewSession(api.NewClient("http://127.0.0.1:1", ""), nil)

	recovery, err := session.Commit(context.Background(), "t1", nil)
	assert.Nil(t, recovery)
	assert.Error(t, err)
}
