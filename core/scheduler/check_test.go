package scheduler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/core/subsystems"
	"github.com/kilianp07/horizon/core/system"
	"github.com/kilianp07/horizon/internal/toy"
)

func forkAll(t *testing.T, initial *state.SystemState, combos [][]model.Access) []*schedule.SystemSchedule {
	t.Helper()
	parent := schedule.NewEmpty(initial)
	out := make([]*schedule.SystemSchedule, len(combos))
	for i, combo := range combos {
		c, err := schedule.Fork(parent, combo, 0, 12, fmt.Sprintf("0.%d", i+1))
		require.NoError(t, err)
		out[i] = c
	}
	return out
}

func transmits(combo []model.Access) bool {
	for _, acc := range combo {
		if acc.Task != nil && acc.Task.Type == subsystems.TaskTransmit {
			return true
		}
	}
	return false
}

func TestCheckAllPotentialSchedulesIsOrderedAcrossWorkerCounts(t *testing.T) {
	var want []string
	for _, workers := range []int{1, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			// checking writes into each candidate's state, so each run gets its own.
			sc, err := toy.New(toy.Options{})
			require.NoError(t, err)
			combos := GenerateExhaustiveSystemSchedules(DefaultAccessModel{}, sc.Assets, sc.Tasks, 0, 12, 12)
			require.Len(t, combos, 9)
			candidates := forkAll(t, sc.Initial, combos)

			feasible, passed, err := CheckAllPotentialSchedules(system.NewChecker(sc.System), candidates, workers)
			require.NoError(t, err)
			require.Len(t, passed, len(candidates))
			for i, combo := range combos {
				assert.Equal(t, !transmits(combo), passed[i], "candidate %s", candidates[i].ID)
			}

			got := ids(feasible)
			assert.Len(t, got, 4)
			var inOrder []string
			for i, ok := range passed {
				if ok {
					inOrder = append(inOrder, candidates[i].ID)
				}
			}
			assert.Equal(t, inOrder, got)
			if want == nil {
				want = got
				return
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestCheckAllPotentialSchedulesAbortsOnFatalError(t *testing.T) {
	sc, err := toy.New(toy.Options{})
	require.NoError(t, err)
	combos := GenerateExhaustiveSystemSchedules(DefaultAccessModel{}, sc.Assets, sc.Tasks, 0, 12, 12)
	candidates := forkAll(t, sc.Initial, combos)

	broken, err := schedule.Fork(schedule.NewEmpty(state.New()), combos[0], 0, 12, "0.99")
	require.NoError(t, err)
	candidates = append(candidates, broken)

	feasible, passed, err := CheckAllPotentialSchedules(system.NewChecker(sc.System), candidates, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, state.ErrUnknownKey))
	assert.ErrorContains(t, err, "check 0.99")
	assert.Nil(t, feasible)
	assert.Nil(t, passed)
}
