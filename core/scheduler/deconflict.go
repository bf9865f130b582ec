package scheduler

import (
	"strconv"

	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
)

// TimeDeconfliction forks every branch with every combination it can take at
// current. Children are numbered per parent from 1 in acceptance order and
// named parent.ID + "." + k. Rejected combinations are skipped silently; an
// access that does not fit the step is a fatal error.
func TimeDeconfliction(branches []*schedule.SystemSchedule, combos [][]model.Access, current, step float64) ([]*schedule.SystemSchedule, error) {
	var out []*schedule.SystemSchedule
	for _, parent := range branches {
		k := 0
		for _, combo := range combos {
			if !schedule.CanAddTasks(parent.History, combo, current) {
				continue
			}
			k++
			child, err := schedule.Fork(parent, combo, current, step, parent.ID+"."+strconv.Itoa(k))
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
	}
	return out, nil
}
