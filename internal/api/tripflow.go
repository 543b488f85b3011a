package api

import (
	"context"
	"fmt"

	"github.com/nhle/tripflow/internal/model"
)

// ListTrips returns every trip known to the store.
func (c *Client) ListTrips(ctx context.Context) ([]model.Trip, error) {
	var trips []model.Trip
	if err := c.get(ctx, "/trips", &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// CreateTrip creates a new trip and returns it with its assigned id.
func (c *Client) CreateTrip(ctx context.Context, payload TripCreate) (*model.Trip, error) {
	var trip model.Trip
	if err := c.post(ctx, "/trips", payload, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// DeleteTrip removes a trip and everything it owns.
func (c *Client) DeleteTrip(ctx context.Context, tripID string) error {
	err := c.delete(ctx, "/trips/"+tripID, nil)
	if IsNotFound(err) {
		return &NotFoundError{Resource: "trip", ID: tripID}
	}
	return err
}

// GetTrip fetches the full snapshot of one trip: the trip record, its
// days, and all activities. This is called on load and after a failed
// reorder commit.
func (c *Client) GetTrip(ctx context.Context, tripID string) (*Snapshot, error) {
	var snap Snapshot
	if err := c.get(ctx, "/trips/"+tripID, &snap); err != nil {
		if IsNotFound(err) {
			return nil, &NotFoundError{Resource: "trip", ID: tripID}
		}
		return nil, err
	}
	return &snap, nil
}

// CreateDay adds a day to a trip.
func (c *Client) CreateDay(ctx context.Context, tripID string, payload DayCreate) (*model.Day, error) {
	var day model.Day
	path := fmt.Sprintf("/trips/%s/days", tripID)
	if err := c.post(ctx, path, payload, &day); err != nil {
		return nil, err
	}
	return &day, nil
}

// CreateActivity adds an activity to a day. The store appends it at the
// end of the day's ordering.
func (c *Client) CreateActivity(
	ctx context.Context,
	tripID, dayID string,
	payload ActivityCreate,
) (*model.Activity, error) {
	var activity model.Activity
	path := fmt.Sprintf("/trips/%s/days/%s/activities", tripID, dayID)
	if err := c.post(ctx, path, payload, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// UpdateActivity modifies an activity's payload fields.
func (c *Client) UpdateActivity(
	ctx context.Context,
	activityID string,
	payload ActivityUpdate,
) (*model.Activity, error) {
	var activity model.Activity
	if err := c.put(ctx, "/activities/"+activityID, payload, &activity); err != nil {
		if IsNotFound(err) {
			return nil, &NotFoundError{Resource: "activity", ID: activityID}
		}
		return nil, err
	}
	return &activity, nil
}

// DeleteActivity removes an activity. The store does not renumber the
// remaining activities of the day; callers absorb the gap on the next
// snapshot load.
func (c *Client) DeleteActivity(ctx context.Context, activityID string) error {
	err := c.delete(ctx, "/activities/"+activityID, nil)
	if IsNotFound(err) {
		return &NotFoundError{Resource: "activity", ID: activityID}
	}
	return err
}

// Reorder persists a completed drag gesture in one batch request. The
// batch carries every activity's day binding and order index.
func (c *Client) Reorder(ctx context.Context, updates []ReorderUpdate) error {
	var msg statusMessage
	return c.post(ctx, "/activities/reorder", updates, &msg)
}
