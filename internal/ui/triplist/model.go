package triplist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tripflow/internal/keys"
	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/planner"
	"github.com/nhle/tripflow/internal/theme"
)

// TripsLoadedMsg is sent when the trip list has been loaded.
type TripsLoadedMsg struct {
	Trips     []model.Trip
	FromCache bool
	Err       error
}

// SelectedTripMsg is sent when the user opens a trip.
type SelectedTripMsg struct {
	TripID string
}

// NewTripMsg is sent when the user starts creating a trip.
type NewTripMsg struct{}

// DeleteTripMsg is sent when the user deletes a trip.
type DeleteTripMsg struct {
	TripID string
}

// Model is the trip picker shown at startup.
type Model struct {
	list    list.Model
	session *planner.Session
	keys    *keys.KeyMap
	width   int
	height  int
}

// New creates a new trip list model.
func New(session *planner.Session, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, TripDelegate{}, width, height-2)
	l.Title = "Trips"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:    l,
		session: session,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init returns a command that loads the trip list.
func (m Model) Init() tea.Cmd {
	return m.LoadTrips()
}

// Update handles messages for the trip list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TripsLoadedMsg:
		items := make([]list.Item, len(msg.Trips))
		for i, trip := range msg.Trips {
			items[i] = TripItem{Trip: trip}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(TripItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedTripMsg{TripID: item.Trip.ID}
			}

		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg {
				return NewTripMsg{}
			}

		case key.Matches(msg, m.keys.Delete):
			item, ok := m.list.SelectedItem().(TripItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return DeleteTripMsg{TripID: item.Trip.ID}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the trip list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No trips yet.\n\nPress n to plan one.")
	}
	return m.list.View()
}

// LoadTrips returns a tea.Cmd that loads the trip list, falling back to
// the offline cache when the store is unreachable.
func (m Model) LoadTrips() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		trips, fromCache, err := session.Trips(context.Background())
		return TripsLoadedMsg{Trips: trips, FromCache: fromCache, Err: err}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
