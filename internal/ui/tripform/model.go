package tripform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/theme"
)

// TripCreatedMsg is dispatched when a new trip is submitted. The app
// creates the trip and one day per date in its range.
type TripCreatedMsg struct {
	Payload api.TripCreate
}

// TripFormCancelMsg is dispatched when the user cancels the form.
type TripFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title     string
	dateStart string
	dateEnd   string
	currency  string
}

// Model is the Bubble Tea model for the trip creation form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new trip form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{currency: "USD"},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new trip.
func (m *Model) StartCreate() tea.Cmd {
	*m.fb = formBindings{currency: "USD"}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the trip form.
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
		return m, func() tea.Msg { return TripFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the trip form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Trip") + "\n" + m.form.View()

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
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("Where to?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewInput().
			Title("Start Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.dateStart).
			Validate(validateDate),
		huh.NewInput().
			Title("End Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.dateEnd).
			Validate(m.validateEndDate),
		huh.NewSelect[string]().
			Title("Currency").
			Options(
				huh.NewOption("USD $", "USD"),
				huh.NewOption("EUR €", "EUR"),
				huh.NewOption("GBP £", "GBP"),
				huh.NewOption("JPY ¥", "JPY"),
				huh.NewOption("INR ₹", "INR"),
				huh.NewOption("CAD $", "CAD"),
				huh.NewOption("AUD $", "AUD"),
			).
			Value(&m.fb.currency),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	payload := api.TripCreate{
		Title:     m.fb.title,
		DateStart: m.fb.dateStart,
		DateEnd:   m.fb.dateEnd,
		Currency:  m.fb.currency,
	}
	return func() tea.Msg {
		return TripCreatedMsg{Payload: payload}
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

func validateDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// validateEndDate checks the format and that the end is not before the
// start. The start field validates independently, so a bad start date
// only reports there.
func (m Model) validateEndDate(s string) error {
	end, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	start, err := time.Parse("2006-01-02", strings.TrimSpace(m.fb.dateStart))
	if err != nil {
		return nil
	}
	if end.Before(start) {
		return fmt.Errorf("end date is before the start date")
	}
	return nil
}
