package evaluator

import (
	"fmt"
	"strings"

	"github.com/kilianp07/horizon/core/schedule"
)

// Scope selects which events a TargetValue sums over.
type Scope string

const (
	// ScopeHistory sums every event of the branch.
	ScopeHistory Scope = "history"
	// ScopeLastEvent only counts the most recent event.
	ScopeLastEvent Scope = "last_event"
)

// Params configures TargetValue when built from a scenario.
type Params struct {
	Scope string `json:"scope"`
}

// TargetValue values a branch by the target values of the tasks it holds.
// Idle assignments add nothing.
type TargetValue struct {
	scope Scope
}

// NewTargetValue returns a TargetValue for scope; an empty scope means
// ScopeLastEvent.
func NewTargetValue(scope string) (*TargetValue, error) {
	switch s := Scope(strings.ToLower(strings.TrimSpace(scope))); s {
	case "":
		return &TargetValue{scope: ScopeLastEvent}, nil
	case ScopeHistory, ScopeLastEvent:
		return &TargetValue{scope: s}, nil
	}
	return nil, fmt.Errorf("target_value: unknown scope %q", scope)
}

// Scope returns the configured scope.
func (e *TargetValue) Scope() Scope { return e.scope }

// Evaluate implements schedule.Evaluator.
func (e *TargetValue) Evaluate(s *schedule.SystemSchedule) float64 {
	if e.scope == ScopeLastEvent {
		return eventValue(s.History.LastEvent())
	}
	var sum float64
	for _, ev := range s.History.Events() {
		sum += eventValue(ev)
	}
	return sum
}

func eventValue(ev *schedule.Event) float64 {
	if ev == nil {
		return 0
	}
	var v float64
	for _, a := range ev.Assignments() {
		if a.Task != nil {
			v += a.Task.Target.Value
		}
	}
	return v
}
