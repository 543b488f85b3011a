package planner

import (
	"sort"

	"github.com/nhle/tripflow/internal/model"
)

// DetectConflicts flags time overlaps between consecutive activities of
// one day. Activities are sorted by start time (stable, so ties keep
// their board order) and each adjacent pair is checked: when an
// activity's end time is strictly later than the next one's start time,
// both are flagged. Back-to-back times (end == next start) do not
// conflict. Only adjacent pairs are compared, so an activity that spans
// several later ones flags only its immediate neighbor.
//
// Times are "HH:MM" strings, which compare correctly as plain strings.
// Activities missing either time are skipped. The result maps activity
// id to true for every flagged activity.
func DetectConflicts(activities []model.Activity) map[string]bool {
	conflicts := make(map[string]bool)

	timed := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if a.StartTime != "" && a.EndTime != "" {
			timed = append(timed, a)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].StartTime < timed[j].StartTime
	})

	for i := 0; i+1 < len(timed); i++ {
		if timed[i].EndTime > timed[i+1].StartTime {
			conflicts[timed[i].ID] = true
			conflicts[timed[i+1].ID] = true
		}
	}

	return conflicts
}
