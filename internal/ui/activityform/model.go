package activityform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/theme"
)

// ActivityCreatedMsg is dispatched when a new activity is submitted.
type ActivityCreatedMsg struct {
	DayID   string
	Payload api.ActivityCreate
}

// ActivityUpdatedMsg is dispatched when an activity edit is submitted.
type ActivityUpdatedMsg struct {
	ActivityID string
	Payload    api.ActivityUpdate
}

// ActivityFormCancelMsg is dispatched when the user cancels the form.
type ActivityFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title     string
	startTime string
	endTime   string
	location  string
	category  model.Category
	cost      string
	priority  string
	notes     string
}

// Model is the Bubble Tea model for the activity create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	dayID    string
	width    int
	height   int
}

// New creates a new activity form model.
func New(width, height int) Model {
	return Model{
		fb: &formBindings{
			category: model.CategoryGeneral,
			priority: model.PriorityMedium,
		},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for adding an activity to a day.
func (m *Model) StartCreate(dayID string) tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.dayID = dayID
	*m.fb = formBindings{
		category: model.CategoryGeneral,
		priority: model.PriorityMedium,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing activity.
func (m *Model) StartEdit(a model.Activity) tea.Cmd {
	m.editMode = true
	m.editID = a.ID
	m.dayID = a.DayID
	m.fb.title = a.Title
	m.fb.startTime = a.StartTime
	m.fb.endTime = a.EndTime
	m.fb.location = a.LocationText
	m.fb.category = a.Category
	m.fb.priority = a.Priority
	m.fb.notes = a.Notes
	if a.Cost > 0 {
		m.fb.cost = strconv.FormatFloat(a.Cost, 'f', -1, 64)
	} else {
		m.fb.cost = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the activity form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return ActivityFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the activity form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Activity"
	if m.editMode {
		titleText = "Edit Activity"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	categoryOpts := make([]huh.Option[model.Category], 0, len(model.Categories()))
	for _, c := range model.Categories() {
		categoryOpts = append(categoryOpts, huh.NewOption(c.Info().Label, c))
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What are you doing?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewInput().
			Title("Start Time").
			Placeholder("HH:MM (optional)").
			Value(&m.fb.startTime).
			Validate(validateOptionalClock),
		huh.NewInput().
			Title("End Time").
			Placeholder("HH:MM (optional)").
			Value(&m.fb.endTime).
			Validate(validateOptionalClock),
		huh.NewInput().
			Title("Location").
			Placeholder("Where? (optional)").
			Value(&m.fb.location),
		huh.NewSelect[model.Category]().
			Title("Category").
			Options(categoryOpts...).
			Value(&m.fb.category),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Cost").
			Placeholder("0.00 (optional)").
			Value(&m.fb.cost).
			Validate(validateOptionalCost),
		huh.NewText().
			Title("Notes").
			Placeholder("Optional details...").
			Value(&m.fb.notes),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	cost := 0.0
	if v := strings.TrimSpace(m.fb.cost); v != "" {
		cost, _ = strconv.ParseFloat(v, 64)
	}

	if m.editMode {
		title := m.fb.title
		startTime := m.fb.startTime
		endTime := m.fb.endTime
		location := m.fb.location
		category := m.fb.category
		notes := m.fb.notes
		priority := m.fb.priority
		payload := api.ActivityUpdate{
			Title:        &title,
			StartTime:    &startTime,
			EndTime:      &endTime,
			LocationText: &location,
			Category:     &category,
			Notes:        &notes,
			Cost:         &cost,
			Priority:     &priority,
		}
		id := m.editID
		return func() tea.Msg {
			return ActivityUpdatedMsg{ActivityID: id, Payload: payload}
		}
	}

	payload := api.ActivityCreate{
		Title:        m.fb.title,
		StartTime:    m.fb.startTime,
		EndTime:      m.fb.endTime,
		LocationText: m.fb.location,
		Category:     m.fb.category,
		Notes:        m.fb.notes,
		Cost:         cost,
		Priority:     m.fb.priority,
	}
	dayID := m.dayID
	return func() tea.Msg {
		return ActivityCreatedMsg{DayID: dayID, Payload: payload}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalClock(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("invalid time, use HH:MM")
	}
	return nil
}

func validateOptionalCost(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("invalid cost, use a non-negative number")
	}
	return nil
}
