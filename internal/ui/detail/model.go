package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tripflow/internal/keys"
	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/theme"
)

// EditRequestedMsg is sent when the user edits the shown activity.
type EditRequestedMsg struct {
	ActivityID string
}

// DeleteRequestedMsg is sent when the user deletes the shown activity.
type DeleteRequestedMsg struct {
	ActivityID string
}

// CloseMsg is sent when the user closes the detail panel.
type CloseMsg struct{}

// Model is the activity detail panel.
type Model struct {
	activity model.Activity
	day      model.Day
	currency string
	conflict bool
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// Show sets the activity to display.
func (m *Model) Show(a model.Activity, d model.Day, currency string, conflict bool) {
	m.activity = a
	m.day = d
	m.currency = currency
	m.conflict = conflict
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(keyMsg, m.keys.Edit):
		id := m.activity.ID
		return m, func() tea.Msg { return EditRequestedMsg{ActivityID: id} }

	case key.Matches(keyMsg, m.keys.Delete):
		id := m.activity.ID
		return m, func() tea.Msg { return DeleteRequestedMsg{ActivityID: id} }
	}

	return m, nil
}

// View renders the detail panel.
func (m Model) View() string {
	a := m.activity

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	header := fmt.Sprintf("%s %s",
		theme.CategoryStyle(a.Category).Render(a.Category.Info().Glyph),
		titleStyle.Render(a.Title),
	)
	if m.conflict {
		header += theme.ConflictBadgeStyle.Render("  ⚠ time conflict")
	}

	var rows []string
	rows = append(rows, header, "")
	rows = append(rows, labeled("Day", fmt.Sprintf("Day %d · %s", m.day.Index, m.day.FormatDate())))

	if a.StartTime != "" {
		span := model.FormatClock(a.StartTime)
		if a.EndTime != "" {
			span += " – " + model.FormatClock(a.EndTime)
		}
		rows = append(rows, labeled("Time", span))
	}
	if a.LocationText != "" {
		rows = append(rows, labeled("Location", a.LocationText))
	}
	rows = append(rows, labeled("Category", a.Category.Info().Label))
	if a.Priority != "" {
		rows = append(rows, labeled("Priority",
			theme.PriorityStyle(a.Priority).Render(a.Priority)))
	}
	if a.Cost > 0 {
		rows = append(rows, labeled("Cost",
			fmt.Sprintf("%s%.2f", model.CurrencySymbol(m.currency), a.Cost)))
	}
	if a.Notes != "" {
		rows = append(rows, "", labeled("Notes", ""), a.Notes)
	}

	rows = append(rows, "", theme.HelpStyle.Render("e edit · x delete · esc back"))

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(strings.Join(rows, "\n"))
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func labeled(label, value string) string {
	l := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Width(10).
		Render(label)
	return l + value
}
