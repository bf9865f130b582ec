package scheduler

import (
	"slices"
	"strings"

	"github.com/kilianp07/horizon/core/schedule"
)

// MergeAndClearSystemSchedules puts the fresh branches in front of the
// existing ones in place, empties *fresh and returns *existing. The backing
// array of *existing is reused when its capacity allows.
func MergeAndClearSystemSchedules(existing, fresh *[]*schedule.SystemSchedule) []*schedule.SystemSchedule {
	*existing = slices.Insert(*existing, 0, *fresh...)
	clear(*fresh)
	*fresh = (*fresh)[:0]
	return *existing
}

// UpdateScheduleIDs pads the ID of every branch that did not grow this step
// with ".0" segments so that each ID carries one segment per step.
func UpdateScheduleIDs(list []*schedule.SystemSchedule, step int) {
	for _, s := range list {
		if n := strings.Count(s.ID, "."); n < step {
			s.ID += strings.Repeat(".0", step-n)
		}
	}
}
