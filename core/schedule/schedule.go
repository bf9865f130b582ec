package schedule

import (
	"github.com/kilianp07/horizon/core/state"
)

// EmptyScheduleID is the identity of the baseline branch.
const EmptyScheduleID = "0"

// SystemSchedule is one candidate plan.
type SystemSchedule struct {
	// ID encodes the lineage of the branch: one dot-separated segment per
	// step, "0" for steps where the branch was carried over unchanged.
	ID      string
	History *StateHistory
	Value   float64
	// StateHash is the tip of the branch's state hash chain.
	StateHash string
}

// NewEmpty returns the baseline branch: no events, value 0.
func NewEmpty(initial *state.SystemState) *SystemSchedule {
	return &SystemSchedule{ID: EmptyScheduleID, History: NewStateHistory(initial)}
}

// IsEmpty reports whether the branch holds no events.
func (s *SystemSchedule) IsEmpty() bool { return s.History.Len() == 0 }

// Label is a human readable name.
func (s *SystemSchedule) Label() string {
	if s.IsEmpty() {
		return "Empty Schedule"
	}
	return "Schedule " + s.ID
}

// Evaluator assigns a scalar value to a branch.
type Evaluator interface {
	Evaluate(s *SystemSchedule) float64
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(*SystemSchedule) float64

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(s *SystemSchedule) float64 { return f(s) }
