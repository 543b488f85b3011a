package model

import "time"

// Category classifies an activity for display purposes. The ordering
// engine treats it as opaque payload.
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryFood          Category = "food"
	CategorySightseeing   Category = "sightseeing"
	CategoryTransport     Category = "transport"
	CategoryAccommodation Category = "accommodation"
	CategoryEntertainment Category = "entertainment"
)

// Priority constants for the activity priority field.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Activity is a single scheduled item within a day. StartTime and EndTime
// are time-of-day strings in "HH:MM" form with no date component; EndTime
// is conventionally >= StartTime but this is not enforced. OrderIndex is
// the dense zero-based rank of the activity within its day.
type Activity struct {
	ID           string    `json:"id" db:"id"`
	TripID       string    `json:"trip_id" db:"trip_id"`
	DayID        string    `json:"day_id" db:"day_id"`
	Title        string    `json:"title" db:"title"`
	StartTime    string    `json:"start_time" db:"start_time"`
	EndTime      string    `json:"end_time" db:"end_time"`
	LocationText string    `json:"location_text" db:"location_text"`
	Category     Category  `json:"category" db:"category"`
	Notes        string    `json:"notes" db:"notes"`
	Cost         float64   `json:"cost" db:"cost"`
	Priority     string    `json:"priority" db:"priority"`
	Color        string    `json:"color" db:"color"`
	OrderIndex   int       `json:"order_index" db:"order_index"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryInfo is the static presentation descriptor for a category.
type CategoryInfo struct {
	Label string
	Glyph string
}

// categoryInfos is resolved at initialization; lookups for unknown
// categories fall back to the general descriptor.
var categoryInfos = map[Category]CategoryInfo{
	CategoryGeneral:       {Label: "General", Glyph: "✦"},
	CategoryFood:          {Label: "Food & Dining", Glyph: "🍴"},
	CategorySightseeing:   {Label: "Sightseeing", Glyph: "📷"},
	CategoryTransport:     {Label: "Transport", Glyph: "🚗"},
	CategoryAccommodation: {Label: "Accommodation", Glyph: "🛏"},
	CategoryEntertainment: {Label: "Entertainment", Glyph: "★"},
}

// Info returns the presentation descriptor for the category.
func (c Category) Info() CategoryInfo {
	if info, ok := categoryInfos[c]; ok {
		return info
	}
	// Unknown category: fall back to the general descriptor.
	return categoryInfos[CategoryGeneral]
}

// Categories lists all known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryGeneral,
		CategoryFood,
		CategorySightseeing,
		CategoryTransport,
		CategoryAccommodation,
		CategoryEntertainment,
	}
}

// FormatClock converts a "HH:MM" time-of-day string to a 12-hour display
// form like "2:30 PM". Returns the input unchanged when it does not parse.
func FormatClock(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}
