package board

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tripflow/internal/keys"
	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/planner"
	"github.com/nhle/tripflow/internal/theme"
)

// SelectedActivityMsg is sent when the user opens an activity's detail.
type SelectedActivityMsg struct {
	ActivityID string
}

// CommitRequestedMsg is sent when a drag gesture ends on a drop. The app
// runs the batch commit against the trip store.
type CommitRequestedMsg struct{}

// NewActivityMsg is sent when the user starts creating an activity in
// the focused day.
type NewActivityMsg struct {
	DayID string
}

// EditActivityMsg is sent when the user starts editing an activity.
type EditActivityMsg struct {
	ActivityID string
}

// DeleteActivityMsg is sent when the user deletes an activity.
type DeleteActivityMsg struct {
	ActivityID string
}

// Model is the itinerary board view: one column per day, with keyboard
// driven drag and drop. It reads and mutates the shared ordering engine
// directly; everything here runs on the update goroutine.
type Model struct {
	engine *planner.Engine
	keys   *keys.KeyMap

	dayIdx int
	rowIdx int

	searchMode  bool
	searchInput textinput.Model
	query       string
	filterIdx   int // 0 = all categories

	width  int
	height int
}

// New creates a board over the shared ordering engine.
func New(engine *planner.Engine, k *keys.KeyMap, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search activities..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		engine:      engine,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Reset moves the cursor to the top of the first day and clears the
// search query and category filter. Called when a new trip is opened.
func (m *Model) Reset() {
	m.dayIdx = 0
	m.rowIdx = 0
	m.query = ""
	m.filterIdx = 0
	m.searchMode = false
	m.searchInput.Reset()
}

// InputActive reports whether the board is capturing text input or a
// drag gesture, in which case global single-key shortcuts must not fire.
func (m Model) InputActive() bool {
	return m.searchMode || m.engine.Moving() != ""
}

// ClampCursor keeps the cursor valid after the engine's state changed
// underneath the board, e.g. on a background refresh.
func (m *Model) ClampCursor() {
	m.clampCursor()
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		if m.engine.Moving() != "" {
			return m.handleDragKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}
	return m, nil
}

// handleSearchKeys processes key input while the search bar is focused.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		m.clampCursor()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input while no drag gesture is active.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.rowIdx < len(m.visibleRows(m.dayIdx))-1 {
			m.rowIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.rowIdx > 0 {
			m.rowIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.dayIdx > 0 {
			m.dayIdx--
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.dayIdx < len(m.engine.Days())-1 {
			m.dayIdx++
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Grab):
		// Filters hide rows, so positional moves would be ambiguous.
		if m.query != "" || m.filterIdx != 0 {
			return m, nil
		}
		if a := m.cursorActivity(); a != nil {
			m.engine.BeginMove(a.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if a := m.cursorActivity(); a != nil {
			id := a.ID
			return m, func() tea.Msg {
				return SelectedActivityMsg{ActivityID: id}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Filter):
		m.filterIdx = (m.filterIdx + 1) % (len(model.Categories()) + 1)
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.New):
		days := m.engine.Days()
		if m.dayIdx < len(days) {
			dayID := days[m.dayIdx].ID
			return m, func() tea.Msg {
				return NewActivityMsg{DayID: dayID}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if a := m.cursorActivity(); a != nil {
			id := a.ID
			return m, func() tea.Msg {
				return EditActivityMsg{ActivityID: id}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if a := m.cursorActivity(); a != nil {
			id := a.ID
			return m, func() tea.Msg {
				return DeleteActivityMsg{ActivityID: id}
			}
		}
		return m, nil
	}

	return m, nil
}

// handleDragKeys processes key input while an activity is grabbed. Every
// directional key re-derives the full ordering through the engine; the
// cursor then follows the grabbed activity to its new position.
func (m Model) handleDragKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	moving := m.engine.Moving()

	switch {
	case key.Matches(msg, m.keys.Down):
		if target, ok := m.targetBelow(moving); ok {
			m.engine.MoveOver(moving, target)
			m.followActivity(moving)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if target, ok := m.targetAbove(moving); ok {
			m.engine.MoveOver(moving, target)
			m.followActivity(moving)
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if target, ok := m.targetSideways(moving, -1); ok {
			m.engine.MoveOver(moving, target)
			m.followActivity(moving)
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if target, ok := m.targetSideways(moving, +1); ok {
			m.engine.MoveOver(moving, target)
			m.followActivity(moving)
		}
		return m, nil

	case key.Matches(msg, m.keys.Drop), key.Matches(msg, m.keys.Grab):
		m.engine.EndMove()
		m.followActivity(moving)
		return m, func() tea.Msg {
			return CommitRequestedMsg{}
		}

	case key.Matches(msg, m.keys.Back):
		// The gesture ends where it is; there is no rollback to the
		// pre-drag ordering. The batch stays uncommitted.
		m.engine.EndMove()
		m.followActivity(moving)
		return m, nil
	}

	return m, nil
}

// targetBelow resolves the drop target one slot below the mover: the
// activity after its current successor, the day itself when the mover is
// second to last, or the top of the next day when it is last.
func (m Model) targetBelow(moving string) (string, bool) {
	a := m.engine.Activity(moving)
	if a == nil {
		return "", false
	}
	dayRows := m.engine.DayActivities(a.DayID)
	p := a.OrderIndex

	switch {
	case p+2 < len(dayRows):
		return dayRows[p+2].ID, true
	case p+1 < len(dayRows):
		return a.DayID, true
	}

	// Bottom of the day: continue at the top of the next one.
	days := m.engine.Days()
	for i, d := range days {
		if d.ID == a.DayID && i+1 < len(days) {
			next := m.engine.DayActivities(days[i+1].ID)
			if len(next) > 0 {
				return next[0].ID, true
			}
			return days[i+1].ID, true
		}
	}
	return "", false
}

// targetAbove resolves the drop target one slot above the mover: its
// predecessor, or the bottom of the previous day when it is first.
func (m Model) targetAbove(moving string) (string, bool) {
	a := m.engine.Activity(moving)
	if a == nil {
		return "", false
	}
	if a.OrderIndex > 0 {
		return m.engine.DayActivities(a.DayID)[a.OrderIndex-1].ID, true
	}

	days := m.engine.Days()
	for i, d := range days {
		if d.ID == a.DayID && i > 0 {
			return days[i-1].ID, true
		}
	}
	return "", false
}

// targetSideways resolves the drop target in the adjacent day, keeping
// the mover's vertical position where possible.
func (m Model) targetSideways(moving string, dir int) (string, bool) {
	a := m.engine.Activity(moving)
	if a == nil {
		return "", false
	}

	days := m.engine.Days()
	for i, d := range days {
		if d.ID != a.DayID {
			continue
		}
		j := i + dir
		if j < 0 || j >= len(days) {
			return "", false
		}
		neighbors := m.engine.DayActivities(days[j].ID)
		if a.OrderIndex < len(neighbors) {
			return neighbors[a.OrderIndex].ID, true
		}
		return days[j].ID, true
	}
	return "", false
}

// followActivity moves the cursor to the activity's current position.
func (m *Model) followActivity(activityID string) {
	a := m.engine.Activity(activityID)
	if a == nil {
		m.clampCursor()
		return
	}
	for i, d := range m.engine.Days() {
		if d.ID == a.DayID {
			m.dayIdx = i
			m.rowIdx = a.OrderIndex
			return
		}
	}
}

// cursorActivity returns the activity under the cursor, or nil.
func (m Model) cursorActivity() *model.Activity {
	rows := m.visibleRows(m.dayIdx)
	if m.rowIdx < 0 || m.rowIdx >= len(rows) {
		return nil
	}
	a := rows[m.rowIdx]
	return &a
}

// visibleRows returns the activities of the day column at dayIdx after
// applying the search query and category filter.
func (m Model) visibleRows(dayIdx int) []model.Activity {
	days := m.engine.Days()
	if dayIdx < 0 || dayIdx >= len(days) {
		return nil
	}

	var rows []model.Activity
	for _, a := range m.engine.DayActivities(days[dayIdx].ID) {
		if m.query != "" && !matchesQuery(a, m.query) {
			continue
		}
		if c, ok := m.filterCategory(); ok && a.Category != c {
			continue
		}
		rows = append(rows, a)
	}
	return rows
}

// filterCategory returns the active category filter, if any.
func (m Model) filterCategory() (model.Category, bool) {
	if m.filterIdx == 0 {
		return "", false
	}
	return model.Categories()[m.filterIdx-1], true
}

func matchesQuery(a model.Activity, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.LocationText), q) ||
		strings.Contains(strings.ToLower(a.Notes), q)
}

// clampCursor keeps the cursor within the focused day's visible rows.
func (m *Model) clampCursor() {
	days := m.engine.Days()
	if m.dayIdx >= len(days) {
		m.dayIdx = len(days) - 1
	}
	if m.dayIdx < 0 {
		m.dayIdx = 0
	}
	rows := m.visibleRows(m.dayIdx)
	if m.rowIdx >= len(rows) {
		m.rowIdx = len(rows) - 1
	}
	if m.rowIdx < 0 {
		m.rowIdx = 0
	}
}

// View renders the board.
func (m Model) View() string {
	days := m.engine.Days()
	if len(days) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("This trip has no days yet.")
	}

	colWidth := m.width/len(days) - 2
	if colWidth < 22 {
		colWidth = 22
	}

	trip := m.engine.Trip()
	columns := make([]string, 0, len(days))
	for i, d := range days {
		columns = append(columns, m.renderDayColumn(i, d, trip, colWidth))
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, boardView)
	}

	if banner := m.filterBanner(); banner != "" {
		return lipgloss.JoinVertical(lipgloss.Left, banner, boardView)
	}
	return boardView
}

// filterBanner describes the active search query and category filter.
func (m Model) filterBanner() string {
	var parts []string
	if m.query != "" {
		parts = append(parts, "search: "+m.query)
	}
	if c, ok := m.filterCategory(); ok {
		parts = append(parts, "category: "+c.Info().Label)
	}
	if len(parts) == 0 {
		return ""
	}
	return theme.HelpStyle.
		Padding(0, 1).
		Render(strings.Join(parts, "  ") + "  (esc or f to clear)")
}

// renderDayColumn draws one day of the itinerary.
func (m Model) renderDayColumn(dayIdx int, d model.Day, trip model.Trip, colWidth int) string {
	rows := m.visibleRows(dayIdx)
	conflicts := planner.DetectConflicts(m.engine.DayActivities(d.ID))
	focused := dayIdx == m.dayIdx
	moving := m.engine.Moving()

	lines := []string{renderDayHeader(d, m.engine.DayCost(d.ID), trip.Currency, colWidth)}

	if len(rows) == 0 {
		lines = append(lines, theme.HelpStyle.Render("no activities"))
	}
	for i, a := range rows {
		lines = append(lines, renderActivityRow(
			a,
			focused && i == m.rowIdx,
			a.ID == moving,
			conflicts[a.ID],
			colWidth,
		))
	}

	column := lipgloss.JoinVertical(lipgloss.Left, lines...)
	style := theme.DayColumnStyle
	if focused {
		style = theme.FocusedDayColumnStyle
	}
	return style.Width(colWidth).Render(column)
}
