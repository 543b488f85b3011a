package api

import (
	"errors"
	"fmt"

	"github.com/nhle/tripflow/internal/model"
)

// NotFoundError indicates that the requested resource does not exist at
// the trip store. Callers surface this as a terminal not-found state
// rather than retrying or falling back to cached data.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// IsNotFound reports whether err (or any error in its chain) is a
// NotFoundError.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// Snapshot is the full state of one trip as returned by GET /trips/{id}:
// the trip, its days sorted by index, and every activity.
type Snapshot struct {
	Trip       model.Trip       `json:"trip"`
	Days       []model.Day      `json:"days"`
	Activities []model.Activity `json:"activities"`
}

// ReorderUpdate is one entry in the batch persistence call sent after a
// completed drag gesture. The batch carries the position of every
// activity in the trip, not just the moved one.
type ReorderUpdate struct {
	ID         string `json:"id"`
	DayID      string `json:"day_id"`
	OrderIndex int    `json:"order_index"`
}

// TripCreate is the payload for creating a new trip.
type TripCreate struct {
	Title     string `json:"title"`
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
	Currency  string `json:"currency"`
	Theme     string `json:"theme,omitempty"`
}

// DayCreate is the payload for creating a day within a trip.
type DayCreate struct {
	Date  string `json:"date"`
	Index int    `json:"index"`
	Notes string `json:"notes,omitempty"`
}

// ActivityCreate is the payload for creating an activity. The store
// assigns the id, day binding, and order index (count-in-day).
type ActivityCreate struct {
	Title        string         `json:"title"`
	StartTime    string         `json:"start_time"`
	EndTime      string         `json:"end_time"`
	LocationText string         `json:"location_text,omitempty"`
	Category     model.Category `json:"category,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	Cost         float64        `json:"cost,omitempty"`
	Priority     string         `json:"priority,omitempty"`
	Color        string         `json:"color,omitempty"`
}

// ActivityUpdate is the payload for PUT /activities/{id}. Nil fields are
// omitted and left unchanged at the store.
type ActivityUpdate struct {
	Title        *string         `json:"title,omitempty"`
	StartTime    *string         `json:"start_time,omitempty"`
	EndTime      *string         `json:"end_time,omitempty"`
	LocationText *string         `json:"location_text,omitempty"`
	Category     *model.Category `json:"category,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	Cost         *float64        `json:"cost,omitempty"`
	Priority     *string         `json:"priority,omitempty"`
	Color        *string         `json:"color,omitempty"`
}

// statusMessage is the generic {"message": ...} body returned by
// mutation endpoints.
type statusMessage struct {
	Message string `json:"message"`
}
