package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/model"
)

// opTimeout bounds every user-triggered trip store call.
const opTimeout = 30 * time.Second

// noticeDuration is how long transient status notices stay visible.
const noticeDuration = 4 * time.Second

// snapshotLoadedMsg carries the result of a full trip load.
type snapshotLoadedMsg struct {
	tripID    string
	snap      *api.Snapshot
	fromCache bool
	err       error
}

// commitResultMsg carries the outcome of a reorder commit. snap is the
// recovery snapshot loaded after a failed commit, nil on success.
type commitResultMsg struct {
	snap *api.Snapshot
	err  error
}

// tripCreatedResultMsg carries the outcome of creating a trip with its days.
type tripCreatedResultMsg struct {
	trip *model.Trip
	err  error
}

// tripDeletedResultMsg carries the outcome of deleting a trip.
type tripDeletedResultMsg struct {
	tripID string
	err    error
}

// activityCreatedResultMsg carries the created activity as assigned by
// the trip store (id and order index included).
type activityCreatedResultMsg struct {
	activity *model.Activity
	err      error
}

// activityUpdatedResultMsg carries the outcome of an activity edit.
type activityUpdatedResultMsg struct {
	activity *model.Activity
	err      error
}

// activityDeletedResultMsg carries the outcome of an activity delete.
type activityDeletedResultMsg struct {
	activityID string
	err        error
}

// noticeExpiredMsg clears the transient header notice.
type noticeExpiredMsg struct{}

// loadSnapshot returns a command that fetches a trip's full snapshot,
// falling back to the offline cache when the store is unreachable.
func (m Model) loadSnapshot(tripID string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		snap, fromCache, err := session.Fetch(ctx, tripID)
		return snapshotLoadedMsg{
			tripID:    tripID,
			snap:      snap,
			fromCache: fromCache,
			err:       err,
		}
	}
}

// commitOrder serializes the engine's current ordering on the update
// goroutine and returns a command that persists it in one batch.
func (m Model) commitOrder() tea.Cmd {
	batch := m.engine.ReorderBatch()
	tripID := m.currentTripID
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		snap, err := session.Commit(ctx, tripID, batch)
		return commitResultMsg{snap: snap, err: err}
	}
}

// createTrip creates the trip and one day per date in its range, the
// way the web planner seeds a new itinerary.
func (m Model) createTrip(payload api.TripCreate) tea.Cmd {
	client := m.session.Client()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		trip, err := client.CreateTrip(ctx, payload)
		if err != nil {
			return tripCreatedResultMsg{err: err}
		}

		start, startErr := time.Parse("2006-01-02", trip.DateStart)
		end, endErr := time.Parse("2006-01-02", trip.DateEnd)
		if startErr != nil || endErr != nil {
			return tripCreatedResultMsg{trip: trip}
		}

		index := 1
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			_, err := client.CreateDay(ctx, trip.ID, api.DayCreate{
				Date:  d.Format("2006-01-02"),
				Index: index,
			})
			if err != nil {
				return tripCreatedResultMsg{trip: trip, err: fmt.Errorf("creating day %d: %w", index, err)}
			}
			index++
		}

		return tripCreatedResultMsg{trip: trip}
	}
}

// deleteTrip removes a trip from the store and the offline cache.
func (m Model) deleteTrip(tripID string) tea.Cmd {
	client := m.session.Client()
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := client.DeleteTrip(ctx, tripID)
		if err == nil && cache != nil {
			_ = cache.DeleteTrip(ctx, tripID)
		}
		return tripDeletedResultMsg{tripID: tripID, err: err}
	}
}

// createActivity adds an activity to a day; the store appends it at the
// end of the day's ordering.
func (m Model) createActivity(dayID string, payload api.ActivityCreate) tea.Cmd {
	client := m.session.Client()
	tripID := m.currentTripID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		activity, err := client.CreateActivity(ctx, tripID, dayID, payload)
		return activityCreatedResultMsg{activity: activity, err: err}
	}
}

// updateActivity persists an activity edit.
func (m Model) updateActivity(activityID string, payload api.ActivityUpdate) tea.Cmd {
	client := m.session.Client()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		activity, err := client.UpdateActivity(ctx, activityID, payload)
		return activityUpdatedResultMsg{activity: activity, err: err}
	}
}

// deleteActivity removes an activity from the store. The engine absorbs
// the store-side order gap by renumbering locally on the result.
func (m Model) deleteActivity(activityID string) tea.Cmd {
	client := m.session.Client()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := client.DeleteActivity(ctx, activityID)
		return activityDeletedResultMsg{activityID: activityID, err: err}
	}
}

// expireNotice clears the header notice after noticeDuration.
func expireNotice() tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}
