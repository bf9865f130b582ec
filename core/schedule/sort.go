package schedule

import (
	"cmp"
	"slices"
)

// SortDeterministic orders branches by value, breaking ties by ascending
// content hash. The order only depends on the set of branches, not on the
// order they arrive in.
func SortDeterministic(list []*SystemSchedule, descending bool) {
	type keyed struct {
		s    *SystemSchedule
		hash string
	}
	ks := make([]keyed, len(list))
	for i, s := range list {
		ks[i] = keyed{s: s, hash: s.Hash()}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		c := cmp.Compare(a.s.Value, b.s.Value)
		if descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.hash, b.hash)
	})
	for i := range ks {
		list[i] = ks[i].s
	}
}

// EvaluateAll stores the evaluator's value on every branch.
func EvaluateAll(list []*SystemSchedule, ev Evaluator) {
	for _, s := range list {
		s.Value = ev.Evaluate(s)
	}
}
