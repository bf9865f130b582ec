package schedule

import (
	"fmt"

	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/state"
)

// CanAddTasks reports whether combo may extend h at current.
//
// An asset whose last event has not ended yet cannot take a new task. The
// repeat limit counts every assignment of the task, across assets and
// events, plus its assignments in combo itself; the combination is rejected
// when the total exceeds MaxTimesToPerform.
func CanAddTasks(h *StateHistory, combo []model.Access, current float64) bool {
	inCombo := make(map[*model.Task]int, len(combo))
	for _, acc := range combo {
		if !acc.Idle() {
			inCombo[acc.Task]++
		}
	}
	for _, acc := range combo {
		if acc.Idle() {
			continue
		}
		if last := h.LastEventFor(acc.Asset); last != nil && last.EventEnd(acc.Asset) > current {
			return false
		}
		if h.TimesCompletedTask(acc.Task)+inCombo[acc.Task] > acc.Task.MaxTimesToPerform {
			return false
		}
	}
	return true
}

// Fork builds the successor of parent for one access combination at the step
// [current, current+step). Event boundaries sit on the step grid; the task
// window is the access window clamped to the step. Idle assets get a zero
// length task at current. The new event starts from an empty state layer on
// top of the parent's last state.
func Fork(parent *SystemSchedule, combo []model.Access, current, step float64, id string) (*SystemSchedule, error) {
	next := current + step
	ev := newEvent(state.NewChild(parent.History.LastState()))
	for _, acc := range combo {
		if err := acc.Validate(current, next); err != nil {
			return nil, err
		}
		if _, dup := ev.byAsset[acc.Asset.Name]; dup {
			return nil, fmt.Errorf("asset %s appears twice in combination", acc.Asset.Name)
		}
		a := &Assignment{Asset: acc.Asset, Task: acc.Task, eventStart: current, eventEnd: next}
		if acc.Idle() {
			a.TaskStart, a.TaskEnd = current, current
		} else {
			a.TaskStart = max(acc.Start, current)
			a.TaskEnd = min(acc.End, next)
		}
		ev.assign(a)
	}
	return &SystemSchedule{
		ID:        id,
		History:   parent.History.Extend(ev),
		StateHash: parent.StateHash,
	}, nil
}
