package model

import "time"

// Day is a dated container of activities within a trip.
// Index is the 1-based day number used for display ("Day 3").
type Day struct {
	ID        string    `json:"id" db:"id"`
	TripID    string    `json:"trip_id" db:"trip_id"`
	Date      string    `json:"date" db:"date"`
	Index     int       `json:"index" db:"day_index"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FormatDate renders the day's date like "Mon, Jan 2".
// Falls back to the raw string when the date does not parse.
func (d Day) FormatDate() string {
	t, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return d.Date
	}
	return t.Format("Mon, Jan 2")
}
