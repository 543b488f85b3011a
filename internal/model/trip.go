package model

import "time"

// Trip is a planned journey owning an ordered sequence of days.
type Trip struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	DateStart string    `json:"date_start" db:"date_start"`
	DateEnd   string    `json:"date_end" db:"date_end"`
	Currency  string    `json:"currency" db:"currency"`
	Theme     string    `json:"theme" db:"theme"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Duration returns the trip length in days, inclusive of both endpoints.
// Returns 0 when either date fails to parse.
func (t Trip) Duration() int {
	start, err := time.Parse("2006-01-02", t.DateStart)
	if err != nil {
		return 0
	}
	end, err := time.Parse("2006-01-02", t.DateEnd)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// currencySymbols maps ISO currency codes to display symbols.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CAD": "$",
	"AUD": "$",
}

// CurrencySymbol returns the display symbol for a currency code,
// defaulting to "$" for unknown codes.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return "$"
}
