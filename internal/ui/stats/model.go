package stats

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/planner"
	"github.com/nhle/tripflow/internal/theme"
)

// Model is the trip statistics panel: totals, per-day spend, category
// breakdown, and how many activities have time conflicts.
type Model struct {
	engine *planner.Engine
	width  int
	height int
}

// New creates a new stats view over the shared ordering engine.
func New(engine *planner.Engine, width, height int) Model {
	return Model{engine: engine, width: width, height: height}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the stats panel.
func (m Model) View() string {
	trip := m.engine.Trip()
	days := m.engine.Days()
	activities := m.engine.Activities()
	symbol := model.CurrencySymbol(trip.Currency)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var rows []string
	rows = append(rows, titleStyle.Render(trip.Title+" · Stats"))

	rows = append(rows, fmt.Sprintf("%-16s %d", "Days", len(days)))
	rows = append(rows, fmt.Sprintf("%-16s %d", "Activities", len(activities)))
	rows = append(rows, fmt.Sprintf("%-16s %s%.2f", "Total cost", symbol, m.engine.TotalCost()))

	conflictCount := 0
	for _, d := range days {
		conflictCount += len(planner.DetectConflicts(m.engine.DayActivities(d.ID)))
	}
	conflictLine := fmt.Sprintf("%-16s %d", "Time conflicts", conflictCount)
	if conflictCount > 0 {
		conflictLine = theme.ConflictBadgeStyle.Render(conflictLine)
	}
	rows = append(rows, conflictLine, "")

	rows = append(rows, lipgloss.NewStyle().Bold(true).Render("Per day"))
	for _, d := range days {
		count := len(m.engine.DayActivities(d.ID))
		rows = append(rows, fmt.Sprintf("  Day %-2d %-14s %2d activities  %s%.2f",
			d.Index, d.FormatDate(), count, symbol, m.engine.DayCost(d.ID)))
	}
	rows = append(rows, "")

	rows = append(rows, lipgloss.NewStyle().Bold(true).Render("By category"))
	counts := make(map[model.Category]int)
	costs := make(map[model.Category]float64)
	for _, a := range activities {
		counts[a.Category]++
		costs[a.Category] += a.Cost
	}
	for _, c := range model.Categories() {
		if counts[c] == 0 {
			continue
		}
		info := c.Info()
		label := theme.CategoryStyle(c).Render(info.Glyph + " " + info.Label)
		rows = append(rows, fmt.Sprintf("  %-32s %2d  %s%.2f",
			label, counts[c], symbol, costs[c]))
	}

	rows = append(rows, "", theme.HelpStyle.Render("esc back"))

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(strings.Join(rows, "\n"))
}

// SetSize updates the stats view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
