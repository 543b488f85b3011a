package settings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tripflow/internal/theme"
)

// SavedMsg is dispatched when the settings form is submitted. The app
// persists the configuration, moves the token into the keyring, and
// rebuilds the trip store client.
type SavedMsg struct {
	BaseURL            string
	Token              string
	RefreshIntervalSec int
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL  string
	token    string
	interval string
}

// Model is the settings form for the trip store connection.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new settings form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form with the current configuration values. The
// token is shown masked; leaving it unchanged keeps the stored one.
func (m *Model) Start(baseURL, token string, refreshIntervalSec int) tea.Cmd {
	m.fb.baseURL = baseURL
	m.fb.token = token
	m.fb.interval = strconv.Itoa(refreshIntervalSec)
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the settings form.
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
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Settings") + "\n" + m.form.View()

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
			Title("Trip store URL").
			Placeholder("http://localhost:8000/api").
			Value(&m.fb.baseURL).
			Validate(validateURL),
		huh.NewInput().
			Title("API token").
			Placeholder("leave empty for open deployments").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.token),
		huh.NewInput().
			Title("Refresh interval (seconds)").
			Value(&m.fb.interval).
			Validate(validateInterval),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	interval, _ := strconv.Atoi(strings.TrimSpace(m.fb.interval))
	msg := SavedMsg{
		BaseURL:            strings.TrimSpace(m.fb.baseURL),
		Token:              strings.TrimSpace(m.fb.token),
		RefreshIntervalSec: interval,
	}
	return func() tea.Msg {
		return msg
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

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid URL, include the scheme (http:// or https://)")
	}
	return nil
}

func validateInterval(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("interval must be a positive number of seconds")
	}
	return nil
}
