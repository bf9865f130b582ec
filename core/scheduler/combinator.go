package scheduler

import (
	"github.com/kilianp07/horizon/core/model"
)

// AccessModel tells when an asset can perform a task.
type AccessModel interface {
	// Accesses returns the windows inside [start, end) during which asset
	// may perform task.
	Accesses(asset *model.Asset, task *model.Task, start, end float64) []model.Access
}

// DefaultAccessModel grants access over the task's availability window, or
// the whole interval when the task has none.
type DefaultAccessModel struct{}

// Accesses implements AccessModel.
func (DefaultAccessModel) Accesses(asset *model.Asset, task *model.Task, start, end float64) []model.Access {
	if w := task.Window; w != nil {
		if !w.Overlaps(start, end) {
			return nil
		}
		start = max(start, w.Start)
		end = min(end, w.End)
	}
	if start >= end {
		return nil
	}
	return []model.Access{{Asset: asset, Task: task, Start: start, End: end}}
}

// CanPregenerateAccesses reports whether accesses can be computed once for
// the whole horizon, which holds when no asset moves.
func CanPregenerateAccesses(assets []*model.Asset) bool {
	for _, a := range assets {
		if a.Dynamic {
			return false
		}
	}
	return true
}

// PregenerateAccesses computes every access of every asset over [start, end),
// keyed by asset name.
func PregenerateAccesses(am AccessModel, assets []*model.Asset, tasks []*model.Task, start, end float64) map[string][]model.Access {
	out := make(map[string][]model.Access, len(assets))
	for _, a := range assets {
		var list []model.Access
		for _, t := range tasks {
			list = append(list, am.Accesses(a, t, start, end)...)
		}
		out[a.Name] = list
	}
	return out
}

// CurrentAccessCombos builds the combinations for the step [current, next)
// from pregenerated accesses. Only accesses overlapping the step take part;
// an asset left without any gets the no-task access.
func CurrentAccessCombos(pregen map[string][]model.Access, assets []*model.Asset, current, next float64) [][]model.Access {
	sets := make([][]model.Access, len(assets))
	for i, a := range assets {
		for _, acc := range pregen[a.Name] {
			if (model.Window{Start: acc.Start, End: acc.End}).Overlaps(current, next) {
				sets[i] = append(sets[i], acc)
			}
		}
		if len(sets[i]) == 0 {
			sets[i] = []model.Access{model.NoTask(a, current)}
		}
	}
	return CartesianProduct(sets)
}

// GenerateExhaustiveSystemSchedules asks am for the accesses of every asset
// and task from current to the end of the horizon and combines those
// overlapping the step [current, next). With the default model and no task
// windows there are T^N combinations for T tasks and N assets.
func GenerateExhaustiveSystemSchedules(am AccessModel, assets []*model.Asset, tasks []*model.Task, current, next, end float64) [][]model.Access {
	return CurrentAccessCombos(PregenerateAccesses(am, assets, tasks, current, end), assets, current, next)
}

// CartesianProduct returns every combination picking one element per set.
// Combinations keep the order of sets; the last set varies fastest. An empty
// set yields no combinations.
func CartesianProduct[T any](sets [][]T) [][]T {
	total := 1
	for _, s := range sets {
		total *= len(s)
	}
	if total == 0 {
		return nil
	}
	out := make([][]T, 0, total)
	idx := make([]int, len(sets))
	for {
		combo := make([]T, len(sets))
		for i, j := range idx {
			combo[i] = sets[i][j]
		}
		out = append(out, combo)

		k := len(sets) - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < len(sets[k]) {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			return out
		}
	}
}
