package planner

import (
	"sort"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/model"
)

// Engine maintains the in-memory ordering of a trip's activities during
// drag gestures. Activities are held in a single slice grouped by day and
// ordered by OrderIndex within each group; every completed operation
// leaves each day's OrderIndex values dense (0..n-1, no gaps).
//
// The engine is only ever mutated from the Bubble Tea update goroutine,
// so it carries no locking. Blocking work (commit, reload) happens in
// commands that operate on copies; see Session.
type Engine struct {
	trip       model.Trip
	days       []model.Day
	activities []model.Activity
	moving     string
	dirty      bool
}

// NewEngine returns an empty engine. State arrives via ApplySnapshot.
func NewEngine() *Engine {
	return &Engine{}
}

// ApplySnapshot replaces the full engine state with a snapshot from the
// trip store: days ordered by index, activities grouped per day by
// OrderIndex and re-densified. Densification here is what absorbs
// server-side gaps left by external deletes, since the store never
// renumbers on delete. Any in-flight gesture and dirty batch are
// discarded; after a reload the store's state is authoritative.
func (e *Engine) ApplySnapshot(snap *api.Snapshot) {
	e.trip = snap.Trip

	e.days = make([]model.Day, len(snap.Days))
	copy(e.days, snap.Days)
	sort.SliceStable(e.days, func(i, j int) bool {
		return e.days[i].Index < e.days[j].Index
	})

	e.activities = e.activities[:0]
	for _, day := range e.days {
		var group []model.Activity
		for _, a := range snap.Activities {
			if a.DayID == day.ID {
				group = append(group, a)
			}
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].OrderIndex < group[j].OrderIndex
		})
		for i := range group {
			group[i].OrderIndex = i
		}
		e.activities = append(e.activities, group...)
	}

	e.moving = ""
	e.dirty = false
}

// BeginMove marks an activity as the active drag subject. Calling it
// again replaces any prior subject; there is no state mutation.
func (e *Engine) BeginMove(activityID string) {
	e.moving = activityID
}

// EndMove clears the drag subject. The ordering stays as last computed
// by MoveOver regardless of whether the gesture ended on a droppable
// target; there is no rollback to the pre-drag state.
func (e *Engine) EndMove() {
	e.moving = ""
}

// Moving returns the id of the active drag subject, or "" when no
// gesture is in progress.
func (e *Engine) Moving() string {
	return e.moving
}

// Dirty reports whether the current ordering has uncommitted moves.
func (e *Engine) Dirty() bool {
	return e.dirty
}

// MarkCommitted clears the dirty flag after a successful reorder commit.
func (e *Engine) MarkCommitted() {
	e.dirty = false
}

// MoveOver applies one provisional move event: the activity is pulled
// out of its current position and reinserted relative to targetRef.
// targetRef is either another activity's id (insert at that activity's
// position, inheriting its day) or a day's id (append to the end of that
// day, used when hovering over empty day space). Hovering over the mover
// itself leaves the ordering untouched. An unresolvable target is a
// silent no-op, since drags routinely pass over non-droppable regions.
//
// The insertion rank is the target's position among the day's activities
// with the mover excluded, which makes repeated calls with identical
// arguments idempotent. Both the target day and, on cross-day moves, the
// source day are renumbered densely; days not involved in the move are
// never touched.
func (e *Engine) MoveOver(activityID, targetRef string) {
	from := e.indexOf(activityID)
	if from < 0 || targetRef == activityID {
		return
	}

	targetDayID := ""
	targetActivity := ""
	if t := e.lookup(targetRef); t != nil {
		targetDayID = t.DayID
		targetActivity = t.ID
	} else if e.dayExists(targetRef) {
		targetDayID = targetRef
	}
	if targetDayID == "" {
		return
	}

	mover := e.activities[from]
	sourceDayID := mover.DayID

	rest := make([]model.Activity, 0, len(e.activities)-1)
	rest = append(rest, e.activities[:from]...)
	rest = append(rest, e.activities[from+1:]...)

	count := 0
	insertRank := -1
	dayStart := -1
	for i, a := range rest {
		if a.DayID != targetDayID {
			continue
		}
		if dayStart < 0 {
			dayStart = i
		}
		if a.ID == targetActivity {
			insertRank = count
		}
		count++
	}
	if insertRank < 0 || insertRank > count {
		insertRank = count
	}

	insertAt := len(rest)
	if dayStart >= 0 {
		insertAt = dayStart + insertRank
	} else {
		// The target day is empty; keep the flat slice grouped in day
		// order by inserting at the day's positional slot.
		rank := e.dayRank(targetDayID)
		for i, a := range rest {
			if e.dayRank(a.DayID) > rank {
				insertAt = i
				break
			}
		}
	}

	mover.DayID = targetDayID
	e.activities = append(rest[:insertAt:insertAt],
		append([]model.Activity{mover}, rest[insertAt:]...)...)

	e.renumberDay(targetDayID)
	if sourceDayID != targetDayID {
		e.renumberDay(sourceDayID)
	}
	e.dirty = true
}

// AddActivity absorbs a newly created activity, appending it at the end
// of its day (OrderIndex = previous count in that day).
func (e *Engine) AddActivity(a model.Activity) {
	count := 0
	insertAt := len(e.activities)
	for i, existing := range e.activities {
		if existing.DayID == a.DayID {
			count++
			insertAt = i + 1
		}
	}
	if count == 0 {
		rank := e.dayRank(a.DayID)
		for i, existing := range e.activities {
			if e.dayRank(existing.DayID) > rank {
				insertAt = i
				break
			}
		}
	}
	a.OrderIndex = count

	e.activities = append(e.activities[:insertAt:insertAt],
		append([]model.Activity{a}, e.activities[insertAt:]...)...)
}

// RemoveActivity drops an activity and compacts the remaining
// OrderIndex values of its day.
func (e *Engine) RemoveActivity(activityID string) {
	at := e.indexOf(activityID)
	if at < 0 {
		return
	}
	dayID := e.activities[at].DayID
	e.activities = append(e.activities[:at], e.activities[at+1:]...)
	e.renumberDay(dayID)
	if e.moving == activityID {
		e.moving = ""
	}
}

// ReorderBatch serializes the full current ordering for the batch
// persistence call: every activity's id, day binding, and order index.
func (e *Engine) ReorderBatch() []api.ReorderUpdate {
	updates := make([]api.ReorderUpdate, len(e.activities))
	for i, a := range e.activities {
		updates[i] = api.ReorderUpdate{
			ID:         a.ID,
			DayID:      a.DayID,
			OrderIndex: a.OrderIndex,
		}
	}
	return updates
}

// Trip returns the current trip record.
func (e *Engine) Trip() model.Trip {
	return e.trip
}

// Days returns the trip's days in display order.
func (e *Engine) Days() []model.Day {
	days := make([]model.Day, len(e.days))
	copy(days, e.days)
	return days
}

// Activities returns all activities in board order.
func (e *Engine) Activities() []model.Activity {
	activities := make([]model.Activity, len(e.activities))
	copy(activities, e.activities)
	return activities
}

// DayActivities returns one day's activities ordered by OrderIndex.
func (e *Engine) DayActivities(dayID string) []model.Activity {
	var group []model.Activity
	for _, a := range e.activities {
		if a.DayID == dayID {
			group = append(group, a)
		}
	}
	return group
}

// Activity returns a copy of the activity with the given id, or nil.
func (e *Engine) Activity(activityID string) *model.Activity {
	if a := e.lookup(activityID); a != nil {
		copied := *a
		return &copied
	}
	return nil
}

// DayCost sums the cost of one day's activities.
func (e *Engine) DayCost(dayID string) float64 {
	total := 0.0
	for _, a := range e.activities {
		if a.DayID == dayID {
			total += a.Cost
		}
	}
	return total
}

// TotalCost sums the cost of every activity in the trip.
func (e *Engine) TotalCost() float64 {
	total := 0.0
	for _, a := range e.activities {
		total += a.Cost
	}
	return total
}

// renumberDay reassigns dense zero-based OrderIndex values to the given
// day's activities by their slice position.
func (e *Engine) renumberDay(dayID string) {
	idx := 0
	for i := range e.activities {
		if e.activities[i].DayID == dayID {
			e.activities[i].OrderIndex = idx
			idx++
		}
	}
}

// indexOf returns the slice position of an activity, or -1.
func (e *Engine) indexOf(activityID string) int {
	for i := range e.activities {
		if e.activities[i].ID == activityID {
			return i
		}
	}
	return -1
}

// lookup returns a pointer to the stored activity, or nil.
func (e *Engine) lookup(activityID string) *model.Activity {
	if i := e.indexOf(activityID); i >= 0 {
		return &e.activities[i]
	}
	return nil
}

// dayExists reports whether the id names one of the trip's days.
func (e *Engine) dayExists(dayID string) bool {
	for _, d := range e.days {
		if d.ID == dayID {
			return true
		}
	}
	return false
}

// dayRank returns the day's position in display order, or len(days) for
// an unknown id.
func (e *Engine) dayRank(dayID string) int {
	for i, d := range e.days {
		if d.ID == dayID {
			return i
		}
	}
	return len(e.days)
}
