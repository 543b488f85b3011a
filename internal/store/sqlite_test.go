package store_test

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

func testTrip(id, title string) model.Trip {
	now := time.Now().UTC().Truncate(time.Second)
	return model.Trip{
		ID:        id,
		Title:     title,
		DateStart: "2026-06-01",
		DateEnd:   "2026-06-03",
		Currency:  "EUR",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testSnapshot(tripID string) *api.Snapshot {
	now := time.Now().UTC().Truncate(time.Second)
	return &api.Snapshot{
		Trip: testTrip(tripID, "Lisbon"),
		Days: []model.Day{
			{ID: "d1", TripID: tripID, Date: "2026-06-01", Index: 1, CreatedAt: now},
			{ID: "d2", TripID: tripID, Date: "2026-06-02", Index: 2, CreatedAt: now},
		},
		Activities: []model.Activity{
			{
				ID: "a1", TripID: tripID, DayID: "d1", Title: "Tram 28",
				StartTime: "09:00", EndTime: "10:00",
				Category: model.CategorySightseeing, Cost: 3.5,
				Priority: model.PriorityMedium, OrderIndex: 0,
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "a2", TripID: tripID, DayID: "d1", Title: "Time Out Market",
				StartTime: "12:00", EndTime: "13:30",
				Category: model.CategoryFood, Cost: 25,
				Priority: model.PriorityHigh, OrderIndex: 1,
				CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: "b1", TripID: tripID, DayID: "d2", Title: "Belem Tower",
				Category: model.CategorySightseeing,
				Priority: model.PriorityLow, OrderIndex: 0,
				CreatedAt: now, UpdatedAt: now,
			},
		},
	}
}

func TestSaveAndGetTrips(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	trips := []model.Trip{testTrip("t1", "Lisbon"), testTrip("t2", "Kyoto")}
	require.NoError(t, s.SaveTrips(ctx, trips))

	got, err := s.GetTrips(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestSaveTripsPrunesRemoved(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTrips(ctx, []model.Trip{
		testTrip("t1", "Lisbon"),
		testTrip("t2", "Kyoto"),
	}))

	// t2 was deleted at the store; the next list write must drop it.
	require.NoError(t, s.SaveTrips(ctx, []model.Trip{testTrip("t1", "Lisbon")}))

	got, err := s.GetTrips(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
}

func TestSaveTripsEmptyClearsCache(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTrips(ctx, []model.Trip{testTrip("t1", "Lisbon")}))
	require.NoError(t, s.SaveTrips(ctx, nil))

	got, err := s.GetTrips(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("t1")))

	got, err := s.GetSnapshot(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Lisbon", got.Trip.Title)
	require.Len(t, got.Days, 2)
	assert.Equal(t, "d1", got.Days[0].ID)
	assert.Equal(t, "d2", got.Days[1].ID)

	require.Len(t, got.Activities, 3)
	assert.Equal(t, "a1", got.Activities[0].ID)
	assert.Equal(t, model.CategorySightseeing, got.Activities[0].Category)
	assert.InDelta(t, 3.5, got.Activities[0].Cost, 1e-9)
	assert.Equal(t, "a2", got.Activities[1].ID)
	assert.Equal(t, 1, got.Activities[1].OrderIndex)
}

func TestSaveSnapshotReplacesStaleRows(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("t1")))

	// The next snapshot has one activity deleted and one moved.
	snap := testSnapshot("t1")
	snap.Activities = snap.Activities[:2]
	snap.Activities[1].DayID = "d2"
	snap.Activities[1].OrderIndex = 0
	require.NoError(t, s.SaveSnapshot(ctx, snap))

	got, err := s.GetSnapshot(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Activities, 2)

	ids := []string{got.Activities[0].ID, got.Activities[1].ID}
	assert.ElementsMatch(t, []string{"a1", "a2"}, ids)
}

func TestGetSnapshotUnknownTrip(t *testing.T) {
	s := testutil.NewTestStore(t)

	got, err := s.GetSnapshot(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteTripCascades(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("t1")))
	require.NoError(t, s.DeleteTrip(ctx, "t1"))

	got, err := s.GetSnapshot(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
