package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/tripflow/internal/model"
)

func timed(id, start, end string) model.Activity {
	return model.Activity{ID: id, DayID: "d1", StartTime: start, EndTime: end}
}

func TestDetectConflictsOverlapFlagsBoth(t *testing.T) {
	conflicts := DetectConflicts([]model.Activity{
		timed("a", "09:00", "10:30"),
		timed("b", "10:00", "11:00"),
	})

	assert.True(t, conflicts["a"])
	assert.True(t, conflicts["b"])
}

func TestDetectConflictsBackToBackIsClean(t *testing.T) {
	conflicts := DetectConflicts([]model.Activity{
		timed("a", "09:00", "10:00"),
		timed("b", "10:00", "11:00"),
	})

	assert.Empty(t, conflicts)
}

func TestDetectConflictsSortsByStartTime(t *testing.T) {
	// Board order does not match chronological order; detection must
	// compare chronological neighbors.
	conflicts := DetectConflicts([]model.Activity{
		timed("late", "14:00", "15:00"),
		timed("early", "09:00", "10:00"),
		timed("mid", "09:45", "11:00"),
	})

	assert.True(t, conflicts["early"])
	assert.True(t, conflicts["mid"])
	assert.False(t, conflicts["late"])
}

func TestDetectConflictsAdjacentPairsOnly(t *testing.T) {
	// "a" spans "c" entirely, but only its immediate chronological
	// neighbor is compared, so "c" stays unflagged.
	conflicts := DetectConflicts([]model.Activity{
		timed("a", "09:00", "12:00"),
		timed("b", "09:30", "10:00"),
		timed("c", "10:30", "11:00"),
	})

	assert.True(t, conflicts["a"])
	assert.True(t, conflicts["b"])
	assert.False(t, conflicts["c"])
}

func TestDetectConflictsSkipsMissingTimes(t *testing.T) {
	conflicts := DetectConflicts([]model.Activity{
		timed("a", "09:00", "10:30"),
		{ID: "untimed", DayID: "d1"},
		timed("b", "10:00", "11:00"),
	})

	assert.True(t, conflicts["a"])
	assert.True(t, conflicts["b"])
	assert.False(t, conflicts["untimed"])
}

func TestDetectConflictsEqualStartsStaySorted(t *testing.T) {
	// Identical starts keep their board order under the stable sort, so
	// the pair is still compared and flagged.
	conflicts := DetectConflicts([]model.Activity{
		timed("a", "09:00", "09:30"),
		timed("b", "09:00", "10:00"),
	})

	assert.True(t, conflicts["a"])
	assert.True(t, conflicts["b"])
}

func TestDetectConflictsEmptyAndSingle(t *testing.T) {
	assert.Empty(t, DetectConflicts(nil))
	assert.Empty(t, DetectConflicts([]model.Activity{timed("a", "09:00", "10:00")}))
}

func TestDetectConflictsCrossDayIsolation(t *testing.T) {
	// Detection takes one day's activities at a time, the way the board
	// and detail views call it. Identical time spans on different days
	// must never flag each other.
	e := NewEngine()

	a := timed("a", "09:00", "11:00")
	b := timed("b", "09:00", "11:00")
	b.DayID = "d2"
	e.ApplySnapshot(snapshot(
		[]model.Day{day("d1", 1), day("d2", 2)},
		[]model.Activity{a, b},
	))

	for _, d := range e.Days() {
		assert.Emptyf(t, DetectConflicts(e.DayActivities(d.ID)),
			"day %s flagged a conflict against another day's activity", d.ID)
	}
}
