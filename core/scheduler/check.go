package scheduler

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/system"
)

// CheckAllPotentialSchedules runs the checker over the candidates on at most
// workers goroutines and returns the feasible ones in candidate order. The
// outcome of every candidate is returned alongside. The first fatal error
// aborts the check.
func CheckAllPotentialSchedules(c *system.Checker, candidates []*schedule.SystemSchedule, workers int) ([]*schedule.SystemSchedule, []bool, error) {
	passed := make([]bool, len(candidates))
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, cand := range candidates {
		g.Go(func() error {
			ok, err := c.CheckSchedule(cand)
			if err != nil {
				return fmt.Errorf("check %s: %w", cand.ID, err)
			}
			passed[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	feasible := make([]*schedule.SystemSchedule, 0, len(candidates))
	for i, ok := range passed {
		if ok {
			feasible = append(feasible, candidates[i])
			candidatesChecked.WithLabelValues("pass").Inc()
		} else {
			candidatesChecked.WithLabelValues("fail").Inc()
		}
	}
	return feasible, passed, nil
}
