package subsystems

import (
	"fmt"

	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/system"
)

// AlwaysTrue accepts every event. It binds no state.
type AlwaysTrue struct {
	system.Base
}

// NewAlwaysTrue returns a pass-through subsystem.
func NewAlwaysTrue(name string, asset *model.Asset, deps ...string) *AlwaysTrue {
	return &AlwaysTrue{Base: system.NewBase(name, asset, deps...)}
}

// SetStateVariableKey implements system.Subsystem.
func (a *AlwaysTrue) SetStateVariableKey(name string) error {
	return fmt.Errorf("always_true: unknown state variable %q", name)
}

// CanPerform implements system.Subsystem.
func (a *AlwaysTrue) CanPerform(*schedule.Event, system.Environment) (bool, error) {
	return true, nil
}

// TaskTimeParams configures TaskTime.
type TaskTimeParams struct {
	StartShift float64 `json:"start_shift"`
	EndShift   float64 `json:"end_shift"`
}

// TaskTime shifts the task window of its asset inside the event, modelling
// slews or warm-up. A shift that leaves the event window makes the event
// infeasible.
type TaskTime struct {
	system.Base
	params TaskTimeParams
}

// NewTaskTime returns a task window shifter.
func NewTaskTime(name string, asset *model.Asset, params TaskTimeParams, deps ...string) *TaskTime {
	return &TaskTime{Base: system.NewBase(name, asset, deps...), params: params}
}

// SetStateVariableKey implements system.Subsystem.
func (t *TaskTime) SetStateVariableKey(name string) error {
	return fmt.Errorf("task_time: unknown state variable %q", name)
}

// CanPerform implements system.Subsystem.
func (t *TaskTime) CanPerform(ev *schedule.Event, _ system.Environment) (bool, error) {
	a := ev.Assignment(t.Asset())
	if a == nil || a.Task == nil {
		return true, nil
	}
	start := a.TaskStart + t.params.StartShift
	end := a.TaskEnd + t.params.EndShift
	if start < a.EventStart() || end > a.EventEnd() || start > end {
		return false, nil
	}
	if end >= a.TaskEnd {
		if err := ev.SetTaskEnd(t.Asset(), end); err != nil {
			return false, err
		}
		return true, ev.SetTaskStart(t.Asset(), start)
	}
	if err := ev.SetTaskStart(t.Asset(), start); err != nil {
		return false, err
	}
	return true, ev.SetTaskEnd(t.Asset(), end)
}
