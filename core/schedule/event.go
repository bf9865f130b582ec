package schedule

import (
	"fmt"
	"sort"

	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/state"
)

// Assignment is the realized task choice of one asset within an event.
type Assignment struct {
	Asset      *model.Asset
	Task       *model.Task
	TaskStart  float64
	TaskEnd    float64
	eventStart float64
	eventEnd   float64
}

// EventStart returns the step boundary the event starts on.
func (a *Assignment) EventStart() float64 { return a.eventStart }

// EventEnd returns the step boundary the event ends on.
func (a *Assignment) EventEnd() float64 { return a.eventEnd }

// Event records the assignments of one timestep and the state they produced.
// Event boundaries are fixed when the event is built; subsystems may move the
// task start and end inside them.
type Event struct {
	assignments []*Assignment
	byAsset     map[string]*Assignment
	State       *state.SystemState
}

func newEvent(s *state.SystemState) *Event {
	return &Event{byAsset: make(map[string]*Assignment), State: s}
}

func (e *Event) assign(a *Assignment) {
	e.assignments = append(e.assignments, a)
	e.byAsset[a.Asset.Name] = a
}

// Assignments returns the per-asset assignments in combination order.
func (e *Event) Assignments() []*Assignment { return e.assignments }

// Assignment returns the assignment of asset, nil when the asset is absent.
func (e *Event) Assignment(asset *model.Asset) *Assignment { return e.byAsset[asset.Name] }

// Task returns the task assigned to asset, nil when idle or absent.
func (e *Event) Task(asset *model.Asset) *model.Task {
	if a := e.byAsset[asset.Name]; a != nil {
		return a.Task
	}
	return nil
}

// TaskStart returns the task start of asset.
func (e *Event) TaskStart(asset *model.Asset) float64 { return e.mustGet(asset).TaskStart }

// TaskEnd returns the task end of asset.
func (e *Event) TaskEnd(asset *model.Asset) float64 { return e.mustGet(asset).TaskEnd }

// EventStart returns the event start of asset.
func (e *Event) EventStart(asset *model.Asset) float64 { return e.mustGet(asset).eventStart }

// EventEnd returns the event end of asset.
func (e *Event) EventEnd(asset *model.Asset) float64 { return e.mustGet(asset).eventEnd }

// SetTaskStart moves the task start of asset. The new start must stay inside
// the event window and not pass the task end.
func (e *Event) SetTaskStart(asset *model.Asset, t float64) error {
	a := e.mustGet(asset)
	if t < a.eventStart || t > a.TaskEnd {
		return fmt.Errorf("task start %.2f outside [%.2f, %.2f] for %s", t, a.eventStart, a.TaskEnd, asset.Name)
	}
	a.TaskStart = t
	return nil
}

// SetTaskEnd moves the task end of asset, bounded by the task start and the
// event end.
func (e *Event) SetTaskEnd(asset *model.Asset, t float64) error {
	a := e.mustGet(asset)
	if t < a.TaskStart || t > a.eventEnd {
		return fmt.Errorf("task end %.2f outside [%.2f, %.2f] for %s", t, a.TaskStart, a.eventEnd, asset.Name)
	}
	a.TaskEnd = t
	return nil
}

// Start returns the step start shared by every assignment.
func (e *Event) Start() float64 {
	if len(e.assignments) == 0 {
		return 0
	}
	return e.assignments[0].eventStart
}

// End returns the step end shared by every assignment.
func (e *Event) End() float64 {
	if len(e.assignments) == 0 {
		return 0
	}
	return e.assignments[0].eventEnd
}

func (e *Event) mustGet(asset *model.Asset) *Assignment {
	a, ok := e.byAsset[asset.Name]
	if !ok {
		panic(fmt.Sprintf("schedule: asset %s not part of event", asset.Name))
	}
	return a
}

func (e *Event) sortedAssignments() []*Assignment {
	out := make([]*Assignment, len(e.assignments))
	copy(out, e.assignments)
	sort.Slice(out, func(i, j int) bool { return out[i].Asset.Name < out[j].Asset.Name })
	return out
}
