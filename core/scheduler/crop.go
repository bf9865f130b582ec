package scheduler

import "github.com/kilianp07/horizon/core/schedule"

// CropToMaxSchedules bounds the pool. Nothing happens while the pool holds at
// most maxSchedules branches. Otherwise every branch but the baseline is
// evaluated, the best cropTo are kept in deterministic order and the
// baseline is appended. It returns the new pool and how many branches were
// dropped.
func CropToMaxSchedules(list []*schedule.SystemSchedule, baseline *schedule.SystemSchedule, ev schedule.Evaluator, maxSchedules, cropTo int) ([]*schedule.SystemSchedule, int) {
	if len(list) <= maxSchedules {
		return list, 0
	}
	rest := make([]*schedule.SystemSchedule, 0, len(list))
	for _, s := range list {
		if s != baseline {
			rest = append(rest, s)
		}
	}
	schedule.EvaluateAll(rest, ev)
	schedule.SortDeterministic(rest, true)
	if len(rest) > cropTo {
		rest = rest[:cropTo]
	}
	kept := append(rest, baseline)
	return kept, len(list) - len(kept)
}
