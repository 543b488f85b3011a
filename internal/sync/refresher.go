package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/planner"
)

// fetchTimeout is the maximum time allowed for a single refresh fetch.
const fetchTimeout = 30 * time.Second

// RefreshMsg is a tea.Msg sent when a background refresh completes. The
// app decides whether to apply the snapshot; a refresh arriving in the
// middle of a drag gesture is dropped there, never here.
type RefreshMsg struct {
	TripID    string
	Snapshot  *api.Snapshot
	FromCache bool
	Err       error
}

// Refresher periodically reloads the open trip's snapshot from the trip
// store so edits made by other devices show up without manual reloads.
type Refresher struct {
	session  *planner.Session
	interval time.Duration

	resultCh  chan RefreshMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      gosync.Mutex
	tripID  string
	running bool
}

// New creates a Refresher over the given session. The interval is the
// time between automatic refreshes.
func New(session *planner.Session, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Refresher{
		session:   session,
		interval:  interval,
		resultCh:  make(chan RefreshMsg, 4),
		triggerCh: make(chan struct{}, 4),
		stopCh:    make(chan struct{}),
	}
}

// SetTrip switches which trip the refresher polls. An empty id pauses
// automatic refreshes, used while no trip is open.
func (r *Refresher) SetTrip(tripID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tripID = tripID
}

// Start launches the refresh loop and returns a subscription command
// that waits for the first result.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return r.waitForResult()
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()
	return r.waitForResult()
}

// Stop halts the refresh loop.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	close(r.stopCh)
	r.running = false
}

// RefreshNow triggers an immediate refresh without waiting for the next
// tick. Never blocks; a pending trigger is enough.
func (r *Refresher) RefreshNow() {
	select {
	case r.triggerCh <- struct{}{}:
	default:
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next refresh
// result. Call it after processing a RefreshMsg to keep listening.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}

func (r *Refresher) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.refresh()
		case <-r.triggerCh:
			r.refresh()
		}
	}
}

func (r *Refresher) refresh() {
	r.mu.Lock()
	tripID := r.tripID
	r.mu.Unlock()

	if tripID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	snap, fromCache, err := r.session.Fetch(ctx, tripID)
	r.sendResult(RefreshMsg{
		TripID:    tripID,
		Snapshot:  snap,
		FromCache: fromCache,
		Err:       err,
	})
}

// sendResult sends a RefreshMsg on the result channel without blocking.
func (r *Refresher) sendResult(msg RefreshMsg) {
	select {
	case r.resultCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the loop.
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return result
	}
}
