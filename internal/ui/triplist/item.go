package triplist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/theme"
)

// TripItem wraps a model.Trip so it can be used in a bubbles/list.
type TripItem struct {
	Trip model.Trip
}

// FilterValue returns the string used for fuzzy filtering.
func (i TripItem) FilterValue() string { return i.Trip.Title }

// TripDelegate implements list.ItemDelegate for rendering trip rows.
type TripDelegate struct{}

// Height returns the number of lines each item takes.
func (d TripDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TripDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TripDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single trip line.
func (d TripDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TripItem)
	if !ok {
		return
	}
	trip := ti.Trip

	duration := ""
	if n := trip.Duration(); n > 0 {
		noun := "days"
		if n == 1 {
			noun = "day"
		}
		duration = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(fmt.Sprintf("  %d %s", n, noun))
	}

	dates := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("  %s → %s", trip.DateStart, trip.DateEnd))

	line := fmt.Sprintf("✈ %s%s%s", trip.Title, dates, duration)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
