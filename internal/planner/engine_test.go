package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/model"
)

func day(id string, index int) model.Day {
	return model.Day{ID: id, TripID: "t1", Date: "2026-06-01", Index: index}
}

func activity(id, dayID string, orderIndex int) model.Activity {
	return model.Activity{
		ID:         id,
		TripID:     "t1",
		DayID:      dayID,
		Title:      "Activity " + id,
		OrderIndex: orderIndex,
	}
}

func snapshot(days []model.Day, activities []model.Activity) *api.Snapshot {
	return &api.Snapshot{
		Trip:       model.Trip{ID: "t1", Title: "Test Trip"},
		Days:       days,
		Activities: activities,
	}
}

// dayOrder returns the ids of a day's activities in rank order, failing
// the test if the day's OrderIndex values are not dense from zero.
func dayOrder(t *testing.T, e *Engine, dayID string) []string {
	t.Helper()
	var ids []string
	for i, a := range e.DayActivities(dayID) {
		require.Equalf(t, i, a.OrderIndex,
			"day %s has a non-dense order index at position %d", dayID, i)
		ids = append(ids, a.ID)
	}
	return ids
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine()
	e.ApplySnapshot(snapshot(
		[]model.Day{day("d1", 1), day("d2", 2), day("d3", 3)},
		[]model.Activity{
			activity("a1", "d1", 0),
			activity("a2", "d1", 1),
			activity("a3", "d1", 2),
			activity("b1", "d2", 0),
			activity("b2", "d2", 1),
		},
	))
	return e
}

func TestApplySnapshotDensifiesServerGaps(t *testing.T) {
	e := NewEngine()
	// An external delete at the store leaves gaps; loading must absorb them.
	e.ApplySnapshot(snapshot(
		[]model.Day{day("d1", 1)},
		[]model.Activity{
			activity("a1", "d1", 0),
			activity("a2", "d1", 3),
			activity("a3", "d1", 7),
		},
	))

	assert.Equal(t, []string{"a1", "a2", "a3"}, dayOrder(t, e, "d1"))
	assert.False(t, e.Dirty())
}

func TestApplySnapshotOrdersDaysByIndex(t *testing.T) {
	e := NewEngine()
	e.ApplySnapshot(snapshot(
		[]model.Day{day("d2", 2), day("d1", 1)},
		nil,
	))

	days := e.Days()
	require.Len(t, days, 2)
	assert.Equal(t, "d1", days[0].ID)
	assert.Equal(t, "d2", days[1].ID)
}

func TestMoveOverActivityCrossDay(t *testing.T) {
	e := newTestEngine(t)

	// Drop a2 onto b2: it inherits d2 and takes b2's position.
	e.MoveOver("a2", "b2")

	assert.Equal(t, []string{"a1", "a3"}, dayOrder(t, e, "d1"))
	assert.Equal(t, []string{"b1", "a2", "b2"}, dayOrder(t, e, "d2"))
	assert.True(t, e.Dirty())

	moved := e.Activity("a2")
	require.NotNil(t, moved)
	assert.Equal(t, "d2", moved.DayID)
	assert.Equal(t, 1, moved.OrderIndex)
}

func TestMoveOverDayRefAppends(t *testing.T) {
	e := newTestEngine(t)

	// Hovering empty day space targets the day itself.
	e.MoveOver("a1", "d2")

	assert.Equal(t, []string{"a2", "a3"}, dayOrder(t, e, "d1"))
	assert.Equal(t, []string{"b1", "b2", "a1"}, dayOrder(t, e, "d2"))
}

func TestMoveOverIntoEmptyDay(t *testing.T) {
	e := newTestEngine(t)

	e.MoveOver("b1", "d3")

	assert.Equal(t, []string{"b2"}, dayOrder(t, e, "d2"))
	assert.Equal(t, []string{"b1"}, dayOrder(t, e, "d3"))

	moved := e.Activity("b1")
	require.NotNil(t, moved)
	assert.Equal(t, 0, moved.OrderIndex)
}

// flatIDs returns every activity id in board (flat slice) order.
func flatIDs(e *Engine) []string {
	var ids []string
	for _, a := range e.Activities() {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestMoveOverIntoEmptyMiddleDayKeepsGrouping(t *testing.T) {
	e := NewEngine()
	e.ApplySnapshot(snapshot(
		[]model.Day{day("d1", 1), day("d2", 2), day("d3", 3)},
		[]model.Activity{
			activity("a1", "d1", 0),
			activity("c1", "d3", 0),
		},
	))

	// d2 is empty; the mover lands in d2's slot of the flat slice, not
	// past d3 at the end.
	e.MoveOver("a1", "d2")

	assert.Equal(t, []string{"a1", "c1"}, flatIDs(e))
	assert.Equal(t, []string{"a1"}, dayOrder(t, e, "d2"))
	assert.Empty(t, dayOrder(t, e, "d1"))
}

func TestMoveOverWithinDay(t *testing.T) {
	e := newTestEngine(t)

	// Dragging a3 up onto a1 displaces a1 downward.
	e.MoveOver("a3", "a1")
	assert.Equal(t, []string{"a3", "a1", "a2"}, dayOrder(t, e, "d1"))

	// And back down onto a2.
	e.MoveOver("a3", "a2")
	assert.Equal(t, []string{"a1", "a3", "a2"}, dayOrder(t, e, "d1"))
}

func TestMoveOverIdempotent(t *testing.T) {
	targets := []string{"b2", "d2", "a1", "d3"}
	for _, target := range targets {
		e := newTestEngine(t)
		e.MoveOver("a2", target)
		once := e.Activities()

		e.MoveOver("a2", target)
		assert.Equalf(t, once, e.Activities(),
			"second MoveOver onto %q changed the ordering", target)
	}
}

func TestMoveOverUnknownTargetIsNoOp(t *testing.T) {
	e := newTestEngine(t)
	before := e.Activities()

	e.MoveOver("a1", "nope")
	assert.Equal(t, before, e.Activities())
	assert.False(t, e.Dirty())

	e.MoveOver("nope", "a1")
	assert.Equal(t, before, e.Activities())
	assert.False(t, e.Dirty())
}

func TestMoveOverSelfTargetKeepsPosition(t *testing.T) {
	e := newTestEngine(t)
	before := e.Activities()

	// Hovering over the mover itself must not displace it within its
	// day, and must not mark the ordering as changed.
	e.MoveOver("a2", "a2")
	assert.Equal(t, before, e.Activities())
	assert.Equal(t, []string{"a1", "a2", "a3"}, dayOrder(t, e, "d1"))
	assert.False(t, e.Dirty())
}

func TestMoveOverLeavesOtherDaysUntouched(t *testing.T) {
	e := newTestEngine(t)
	beforeD2 := e.DayActivities("d2")

	e.MoveOver("a3", "a1")
	assert.Equal(t, beforeD2, e.DayActivities("d2"))
}

func TestMoveGestureLifecycle(t *testing.T) {
	e := newTestEngine(t)

	e.BeginMove("a1")
	assert.Equal(t, "a1", e.Moving())

	// A new grab replaces the current subject.
	e.BeginMove("b1")
	assert.Equal(t, "b1", e.Moving())

	e.MoveOver("b1", "d1")
	e.EndMove()
	assert.Equal(t, "", e.Moving())

	// Ending the gesture keeps the last provisional ordering.
	assert.Equal(t, []string{"a1", "a2", "a3", "b1"}, dayOrder(t, e, "d1"))
	assert.True(t, e.Dirty())

	e.MarkCommitted()
	assert.False(t, e.Dirty())
}

func TestAddActivityAppendsToDay(t *testing.T) {
	e := newTestEngine(t)

	e.AddActivity(activity("b3", "d2", 0))

	assert.Equal(t, []string{"b1", "b2", "b3"}, dayOrder(t, e, "d2"))
	assert.Equal(t, []string{"a1", "a2", "a3"}, dayOrder(t, e, "d1"))
}

func TestAddActivityToEmptyDay(t *testing.T) {
	e := newTestEngine(t)

	e.AddActivity(activity("c1", "d3", 0))
	assert.Equal(t, []string{"c1"}, dayOrder(t, e, "d3"))
}

func TestAddActivityToEmptyMiddleDayKeepsGrouping(t *testing.T) {
	e := NewEngine()
	e.ApplySnapshot(snapshot(
		[]model.Day{day("d1", 1), day("d2", 2), day("d3", 3)},
		[]model.Activity{
			activity("a1", "d1", 0),
			activity("c1", "d3", 0),
		},
	))

	e.AddActivity(activity("b1", "d2", 0))

	assert.Equal(t, []string{"a1", "b1", "c1"}, flatIDs(e))
	assert.Equal(t, []string{"b1"}, dayOrder(t, e, "d2"))
}

func TestRemoveActivityRenumbersDay(t *testing.T) {
	e := newTestEngine(t)

	e.RemoveActivity("a2")

	assert.Equal(t, []string{"a1", "a3"}, dayOrder(t, e, "d1"))
	assert.Nil(t, e.Activity("a2"))
}

func TestRemoveMovingActivityClearsGesture(t *testing.T) {
	e := newTestEngine(t)

	e.BeginMove("a1")
	e.RemoveActivity("a1")
	assert.Equal(t, "", e.Moving())
}

func TestReorderBatchCoversEveryActivity(t *testing.T) {
	e := newTestEngine(t)
	e.MoveOver("a1", "d2")

	batch := e.ReorderBatch()
	require.Len(t, batch, 5)

	byID := make(map[string]api.ReorderUpdate, len(batch))
	for _, u := range batch {
		byID[u.ID] = u
	}

	assert.Equal(t, api.ReorderUpdate{ID: "a1", DayID: "d2", OrderIndex: 2}, byID["a1"])
	assert.Equal(t, api.ReorderUpdate{ID: "a2", DayID: "d1", OrderIndex: 0}, byID["a2"])
	assert.Equal(t, api.ReorderUpdate{ID: "a3", DayID: "d1", OrderIndex: 1}, byID["a3"])
	assert.Equal(t, api.ReorderUpdate{ID: "b1", DayID: "d2", OrderIndex: 0}, byID["b1"])
	assert.Equal(t, api.ReorderUpdate{ID: "b2", DayID: "d2", OrderIndex: 1}, byID["b2"])
}

func TestCosts(t *testing.T) {
	e := NewEngine()
	a1 := activity("a1", "d1", 0)
	a1.Cost = 12.5
	a2 := activity("a2", "d1", 1)
	a2.Cost = 7.5
	b1 := activity("b1", "d2", 0)
	b1.Cost = 30

	e.ApplySnapshot(snapshot(
		[]model.Day{day("d1", 1), day("d2", 2)},
		[]model.Activity{a1, a2, b1},
	))

	assert.InDelta(t, 20.0, e.DayCost("d1"), 1e-9)
	assert.InDelta(t, 30.0, e.DayCost("d2"), 1e-9)
	assert.InDelta(t, 50.0, e.TotalCost(), 1e-9)
}
