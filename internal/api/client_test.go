package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/tests/testutil"
)

func TestClientTripLifecycle(t *testing.T) {
	srv := testutil.NewTripServer(t)
	client := api.NewClient(srv.URL(), "")
	ctx := context.Background()

	trip, err := client.CreateTrip(ctx, api.TripCreate{
		Title:     "Kyoto",
		DateStart: "2026-10-01",
		DateEnd:   "2026-10-03",
		Currency:  "JPY",
	})
	require.NoError(t, err)
	require.NotEmpty(t, trip.ID)

	day, err := client.CreateDay(ctx, trip.ID, api.DayCreate{Date: "2026-10-01", Index: 1})
	require.NoError(t, err)

	activity, err := client.CreateActivity(ctx, trip.ID, day.ID, api.ActivityCreate{
		Title:     "Fushimi Inari",
		StartTime: "08:00",
		EndTime:   "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, activity.OrderIndex)

	second, err := client.CreateActivity(ctx, trip.ID, day.ID, api.ActivityCreate{
		Title: "Nishiki Market",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.OrderIndex)

	snap, err := client.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, snap.Trip.ID)
	assert.Len(t, snap.Days, 1)
	assert.Len(t, snap.Activities, 2)

	title := "Nishiki Market lunch"
	updated, err := client.UpdateActivity(ctx, second.ID, api.ActivityUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	require.NoError(t, client.Reorder(ctx, []api.ReorderUpdate{
		{ID: second.ID, DayID: day.ID, OrderIndex: 0},
		{ID: activity.ID, DayID: day.ID, OrderIndex: 1},
	}))

	dayID, orderIndex, ok := srv.ActivityState(second.ID)
	require.True(t, ok)
	assert.Equal(t, day.ID, dayID)
	assert.Equal(t, 0, orderIndex)

	require.NoError(t, client.DeleteActivity(ctx, activity.ID))
	require.NoError(t, client.DeleteTrip(ctx, trip.ID))

	_, err = client.GetTrip(ctx, trip.ID)
	assert.True(t, api.IsNotFound(err))
}

func TestClientNotFoundErrors(t *testing.T) {
	srv := testutil.NewTripServer(t)
	client := api.NewClient(srv.URL(), "")
	ctx := context.Background()

	_, err := client.GetTrip(ctx, "missing")
	assert.True(t, api.IsNotFound(err))

	err = client.DeleteActivity(ctx, "missing")
	assert.True(t, api.IsNotFound(err))

	_, err = client.UpdateActivity(ctx, "missing", api.ActivityUpdate{})
	assert.True(t, api.IsNotFound(err))
}

func TestClientRetriesOnRateLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, "")
	trips, err := client.ListTrips(context.Background())
	require.NoError(t, err)
	assert.Empty(t, trips)
	assert.Equal(t, 3, attempts)
}

func TestClientSurfacesErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "database locked"}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, "")
	_, err := client.ListTrips(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database locked")
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, "sekrit")
	_, err := client.ListTrips(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer sekrit", gotAuth)
}
