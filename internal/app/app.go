package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/credential"
	"github.com/nhle/tripflow/internal/keys"
	"github.com/nhle/tripflow/internal/model"
	"github.com/nhle/tripflow/internal/planner"
	"github.com/nhle/tripflow/internal/store"
	appsync "github.com/nhle/tripflow/internal/sync"
	"github.com/nhle/tripflow/internal/ui"
	"github.com/nhle/tripflow/internal/ui/activityform"
	"github.com/nhle/tripflow/internal/ui/board"
	"github.com/nhle/tripflow/internal/ui/command"
	"github.com/nhle/tripflow/internal/ui/detail"
	helpview "github.com/nhle/tripflow/internal/ui/help"
	"github.com/nhle/tripflow/internal/ui/settings"
	"github.com/nhle/tripflow/internal/ui/stats"
	"github.com/nhle/tripflow/internal/ui/tripform"
	"github.com/nhle/tripflow/internal/ui/triplist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewTrips ViewState = iota
	ViewBoard
	ViewDetail
	ViewStats
	ViewHelp
	ViewCommand
	ViewTripCreate
	ViewActivityForm
	ViewSettings
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and the shared ordering engine.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	cfg     *model.AppConfig
	cfgPath string

	engine    *planner.Engine
	session   *planner.Session
	cache     store.Store
	refresher *appsync.Refresher

	tripList     triplist.Model
	boardView    board.Model
	detailView   detail.Model
	statsView    stats.Model
	helpView     helpview.Model
	commandView  command.Model
	tripForm     tripform.Model
	activityForm activityform.Model
	settingsView settings.Model

	currentTripID string
	ready         bool
	offline       bool
	notice        string
}

// New creates the root application model.
func New(cfg *model.AppConfig, cfgPath string, session *planner.Session, cache store.Store) Model {
	k := keys.DefaultKeyMap()
	engine := planner.NewEngine()
	refresher := appsync.New(session,
		time.Duration(cfg.Sync.RefreshIntervalSec)*time.Second)

	return Model{
		currentView:  ViewTrips,
		keys:         k,
		cfg:          cfg,
		cfgPath:      cfgPath,
		engine:       engine,
		session:      session,
		cache:        cache,
		refresher:    refresher,
		tripList:     triplist.New(session, k, 80, 24),
		boardView:    board.New(engine, k, 80, 24),
		detailView:   detail.New(k, 80, 24),
		statsView:    stats.New(engine, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		tripForm:     tripform.New(80, 24),
		activityForm: activityform.New(80, 24),
		settingsView: settings.New(80, 24),
	}
}

// Init loads the trip list and starts the background refresher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tripList.Init(),
		m.refresher.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.tripList.SetSize(w, h)
		m.boardView.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.statsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.tripForm.SetSize(w, h)
		m.activityForm.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case triplist.TripsLoadedMsg:
		m.offline = msg.FromCache
		if msg.Err != nil && !msg.FromCache {
			return m.withNotice("trip store unreachable: " + msg.Err.Error())
		}
		var cmd tea.Cmd
		m.tripList, cmd = m.tripList.Update(msg)
		return m, cmd

	case triplist.SelectedTripMsg:
		return m, m.loadSnapshot(msg.TripID)

	case triplist.NewTripMsg:
		m.previousView = m.currentView
		m.currentView = ViewTripCreate
		cmd := m.tripForm.StartCreate()
		return m, cmd

	case triplist.DeleteTripMsg:
		return m, m.deleteTrip(msg.TripID)

	case snapshotLoadedMsg:
		return m.handleSnapshotLoaded(msg)

	case board.SelectedActivityMsg:
		return m.openDetail(msg.ActivityID)

	case board.CommitRequestedMsg:
		return m, m.commitOrder()

	case board.NewActivityMsg:
		m.previousView = m.currentView
		m.currentView = ViewActivityForm
		cmd := m.activityForm.StartCreate(msg.DayID)
		return m, cmd

	case board.EditActivityMsg:
		return m.openActivityEdit(msg.ActivityID)

	case board.DeleteActivityMsg:
		return m, m.deleteActivity(msg.ActivityID)

	case detail.CloseMsg:
		m.currentView = ViewBoard
		return m, nil

	case detail.EditRequestedMsg:
		return m.openActivityEdit(msg.ActivityID)

	case detail.DeleteRequestedMsg:
		m.currentView = ViewBoard
		return m, m.deleteActivity(msg.ActivityID)

	case activityform.ActivityCreatedMsg:
		m.currentView = ViewBoard
		return m, m.createActivity(msg.DayID, msg.Payload)

	case activityform.ActivityUpdatedMsg:
		m.currentView = ViewBoard
		return m, m.updateActivity(msg.ActivityID, msg.Payload)

	case activityform.ActivityFormCancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case tripform.TripCreatedMsg:
		m.currentView = ViewTrips
		return m, m.createTrip(msg.Payload)

	case tripform.TripFormCancelMsg:
		m.currentView = ViewTrips
		return m, nil

	case settings.SavedMsg:
		return m.applySettings(msg)

	case settings.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case commitResultMsg:
		return m.handleCommitResult(msg)

	case tripCreatedResultMsg:
		if msg.err != nil {
			return m.withNotice("creating trip failed: " + msg.err.Error())
		}
		return m, m.loadSnapshot(msg.trip.ID)

	case tripDeletedResultMsg:
		if msg.err != nil {
			return m.withNotice("deleting trip failed: " + msg.err.Error())
		}
		return m, m.tripList.LoadTrips()

	case activityCreatedResultMsg:
		if msg.err != nil {
			return m.withNotice("creating activity failed: " + msg.err.Error())
		}
		m.engine.AddActivity(*msg.activity)
		m.boardView.ClampCursor()
		return m, nil

	case activityUpdatedResultMsg:
		if msg.err != nil {
			return m.withNotice("updating activity failed: " + msg.err.Error())
		}
		// Times, cost, or category may have changed; re-pull the
		// authoritative snapshot instead of patching in place.
		return m, m.loadSnapshot(m.currentTripID)

	case activityDeletedResultMsg:
		if msg.err != nil && !api.IsNotFound(msg.err) {
			return m.withNotice("deleting activity failed: " + msg.err.Error())
		}
		m.engine.RemoveActivity(msg.activityID)
		m.boardView.ClampCursor()
		return m, nil

	case appsync.RefreshMsg:
		return m.handleRefresh(msg)

	case noticeExpiredMsg:
		m.notice = ""
		return m, nil

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKey(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work across views. Returns false
// when the key must fall through to the active view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.refresher.Stop()
		return true, m, tea.Quit

	case "q":
		if m.currentView == ViewTrips {
			m.refresher.Stop()
			return true, m, tea.Quit
		}
		if m.currentView == ViewBoard && !m.boardView.InputActive() {
			m.currentView = ViewTrips
			m.currentTripID = ""
			m.refresher.SetTrip("")
			return true, m, m.tripList.LoadTrips()
		}

	case "?":
		if m.typingView() {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case ":":
		if m.typingView() {
			break
		}
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return true, m, cmd

	case "r":
		if m.currentView == ViewTrips {
			return true, m, m.tripList.LoadTrips()
		}
		if m.currentView == ViewBoard && !m.boardView.InputActive() {
			m.refresher.RefreshNow()
			return true, m, nil
		}

	case "s":
		if m.currentView == ViewBoard && !m.boardView.InputActive() {
			m.previousView = m.currentView
			m.currentView = ViewStats
			return true, m, nil
		}

	case "S":
		if m.currentView == ViewTrips ||
			(m.currentView == ViewBoard && !m.boardView.InputActive()) {
			cmd := m.openSettings()
			return true, m, cmd
		}

	case "esc":
		switch m.currentView {
		case ViewStats, ViewHelp, ViewCommand:
			m.currentView = m.previousView
			return true, m, nil
		}
	}

	return false, m, nil
}

// typingView reports whether the active view owns raw text input, in
// which case single-key global shortcuts must not fire.
func (m Model) typingView() bool {
	switch m.currentView {
	case ViewCommand, ViewTripCreate, ViewActivityForm, ViewSettings:
		return true
	case ViewBoard:
		return m.boardView.InputActive()
	}
	return false
}

// handleSnapshotLoaded applies a freshly loaded trip snapshot.
func (m Model) handleSnapshotLoaded(msg snapshotLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsNotFound(msg.err) {
			m.currentView = ViewTrips
			mdl, cmd := m.withNotice("trip no longer exists")
			return mdl, tea.Batch(cmd, m.tripList.LoadTrips())
		}
		return m.withNotice("loading trip failed: " + msg.err.Error())
	}

	opening := m.currentTripID != msg.tripID
	m.currentTripID = msg.tripID
	m.offline = msg.fromCache
	m.engine.ApplySnapshot(msg.snap)
	m.refresher.SetTrip(msg.tripID)

	if opening {
		m.boardView.Reset()
	} else {
		m.boardView.ClampCursor()
	}
	if m.currentView == ViewTrips || m.currentView == ViewTripCreate {
		m.currentView = ViewBoard
	}
	return m, nil
}

// handleCommitResult finishes a reorder commit. On failure the engine
// is replaced with the recovery snapshot; there is no local rollback.
func (m Model) handleCommitResult(msg commitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		m.engine.MarkCommitted()
		return m.withNotice("order saved")
	}

	if msg.snap != nil {
		m.engine.ApplySnapshot(msg.snap)
		m.boardView.ClampCursor()
		return m.withNotice("saving order failed, reloaded from trip store")
	}
	return m.withNotice("saving order failed: " + msg.err.Error())
}

// handleRefresh applies a background refresh result. Snapshots arriving
// mid-gesture or with uncommitted moves are dropped; the local ordering
// wins until it is committed.
func (m Model) handleRefresh(msg appsync.RefreshMsg) (tea.Model, tea.Cmd) {
	wait := m.refresher.WaitForNextResult()

	if msg.TripID != m.currentTripID {
		return m, wait
	}
	if msg.Err != nil {
		m.offline = true
		return m, wait
	}
	if msg.Snapshot == nil || m.engine.Moving() != "" || m.engine.Dirty() {
		return m, wait
	}

	m.offline = msg.FromCache
	m.engine.ApplySnapshot(msg.Snapshot)
	m.boardView.ClampCursor()
	return m, wait
}

// openDetail shows the detail panel for an activity.
func (m Model) openDetail(activityID string) (tea.Model, tea.Cmd) {
	a := m.engine.Activity(activityID)
	if a == nil {
		return m, nil
	}

	var day model.Day
	for _, d := range m.engine.Days() {
		if d.ID == a.DayID {
			day = d
			break
		}
	}
	conflicts := planner.DetectConflicts(m.engine.DayActivities(a.DayID))

	m.detailView.Show(*a, day, m.engine.Trip().Currency, conflicts[a.ID])
	m.previousView = m.currentView
	m.currentView = ViewDetail
	return m, nil
}

// openActivityEdit opens the activity form pre-filled for editing.
func (m Model) openActivityEdit(activityID string) (tea.Model, tea.Cmd) {
	a := m.engine.Activity(activityID)
	if a == nil {
		return m, nil
	}
	m.previousView = m.currentView
	m.currentView = ViewActivityForm
	cmd := m.activityForm.StartEdit(*a)
	return m, cmd
}

// openSettings opens the settings form with the current configuration.
func (m *Model) openSettings() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewSettings
	token, _ := credential.Get(credential.TokenKey)
	if token == "" {
		token = m.cfg.API.Token
	}
	return m.settingsView.Start(
		m.cfg.API.BaseURL, token, m.cfg.Sync.RefreshIntervalSec)
}

// applySettings persists the settings form and swaps the store client.
// The token goes to the system keyring; the config file only keeps it
// when the keyring is unavailable.
func (m Model) applySettings(msg settings.SavedMsg) (tea.Model, tea.Cmd) {
	m.cfg.API.BaseURL = msg.BaseURL
	m.cfg.Sync.RefreshIntervalSec = msg.RefreshIntervalSec

	m.cfg.API.Token = ""
	if msg.Token != "" {
		if err := credential.Set(credential.TokenKey, msg.Token); err != nil {
			m.cfg.API.Token = msg.Token
		}
	} else {
		_ = credential.Delete(credential.TokenKey)
	}

	if err := model.SaveConfig(m.cfgPath, m.cfg); err != nil {
		return m.withNotice("saving settings failed: " + err.Error())
	}

	m.session.SetClient(api.NewClient(msg.BaseURL, msg.Token))
	m.currentView = m.previousView

	mdl, cmd := m.withNotice("settings saved")
	return mdl, tea.Batch(cmd, m.tripList.LoadTrips())
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "quit", "q":
		m.refresher.Stop()
		return tea.Quit
	case "trips":
		m.currentView = ViewTrips
		m.refresher.SetTrip("")
		return m.tripList.LoadTrips()
	case "refresh", "sync":
		if m.currentView == ViewBoard {
			m.refresher.RefreshNow()
			return nil
		}
		return m.tripList.LoadTrips()
	case "stats":
		if m.currentTripID != "" {
			m.previousView = m.currentView
			m.currentView = ViewStats
		}
		return nil
	case "settings", "config":
		return m.openSettings()
	case "new trip":
		m.previousView = m.currentView
		m.currentView = ViewTripCreate
		return m.tripForm.StartCreate()
	default:
		return nil
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTrips:
		m.tripList, cmd = m.tripList.Update(msg)
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTripCreate:
		m.tripForm, cmd = m.tripForm.Update(msg)
	case ViewActivityForm:
		m.activityForm, cmd = m.activityForm.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// withNotice sets a transient header notice and schedules its expiry.
func (m Model) withNotice(text string) (tea.Model, tea.Cmd) {
	m.notice = text
	return m, expireNotice()
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.noticeText(), m.connectionBadge())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTrips:
		return m.tripList.View()
	case ViewBoard:
		return m.boardView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewStats:
		return m.statsView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTripCreate:
		return m.tripForm.View()
	case ViewActivityForm:
		return m.activityForm.View()
	case ViewSettings:
		return m.settingsView.View()
	default:
		return ""
	}
}

// headerTitle is the application name, or the open trip's title.
func (m Model) headerTitle() string {
	if m.currentTripID != "" && m.currentView != ViewTrips {
		trip := m.engine.Trip()
		if trip.Title != "" {
			return fmt.Sprintf("Tripflow · %s", trip.Title)
		}
	}
	return "Tripflow"
}

// noticeText pads the transient notice for the header.
func (m Model) noticeText() string {
	if m.notice == "" {
		return ""
	}
	return "  " + m.notice
}

// connectionBadge summarizes store connectivity and pending local state.
func (m Model) connectionBadge() string {
	switch {
	case m.engine.Moving() != "":
		return "moving"
	case m.engine.Dirty():
		return "unsaved order"
	case m.offline:
		return "offline"
	default:
		return "synced"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewTrips:
		return "enter open | n new | x delete | r refresh | S settings | ? help | q quit"
	case ViewBoard:
		if m.engine.Moving() != "" {
			return "h/j/k/l move | enter/space drop | esc release"
		}
		return "space grab | enter detail | n new | e edit | x delete | / search | f filter | s stats | q trips"
	case ViewDetail:
		return "e edit | x delete | esc back"
	case ViewStats:
		return "esc back"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewTripCreate, ViewActivityForm, ViewSettings:
		return "enter submit | esc cancel"
	default:
		return ""
	}
}
