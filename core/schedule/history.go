package schedule

import (
	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/state"
)

type node struct {
	event  *Event
	parent *node
	depth  int
}

// StateHistory is the persistent event chain of one branch.
type StateHistory struct {
	initial *state.SystemState
	head    *node
}

// NewStateHistory returns an empty history rooted at initial.
func NewStateHistory(initial *state.SystemState) *StateHistory {
	return &StateHistory{initial: initial}
}

// Extend returns a new history with e appended. h is left untouched.
func (h *StateHistory) Extend(e *Event) *StateHistory {
	depth := 1
	if h.head != nil {
		depth = h.head.depth + 1
	}
	return &StateHistory{initial: h.initial, head: &node{event: e, parent: h.head, depth: depth}}
}

// Len returns the number of events.
func (h *StateHistory) Len() int {
	if h.head == nil {
		return 0
	}
	return h.head.depth
}

// LastEvent returns the most recent event, nil for an empty history.
func (h *StateHistory) LastEvent() *Event {
	if h.head == nil {
		return nil
	}
	return h.head.event
}

// LastState returns the state of the last event, or the initial state.
func (h *StateHistory) LastState() *state.SystemState {
	if h.head == nil {
		return h.initial
	}
	return h.head.event.State
}

// Events returns the events oldest first.
func (h *StateHistory) Events() []*Event {
	out := make([]*Event, h.Len())
	for n, i := h.head, h.Len()-1; n != nil; n, i = n.parent, i-1 {
		out[i] = n.event
	}
	return out
}

// TimesCompletedTask counts every assignment of task across assets and events.
func (h *StateHistory) TimesCompletedTask(task *model.Task) int {
	count := 0
	for n := h.head; n != nil; n = n.parent {
		for _, a := range n.event.assignments {
			if a.Task == task {
				count++
			}
		}
	}
	return count
}

// EventsWithTask counts the events in which task was assigned at least once.
func (h *StateHistory) EventsWithTask(task *model.Task) int {
	count := 0
	for n := h.head; n != nil; n = n.parent {
		for _, a := range n.event.assignments {
			if a.Task == task {
				count++
				break
			}
		}
	}
	return count
}

// LastEventFor returns the most recent event holding an assignment for asset.
func (h *StateHistory) LastEventFor(asset *model.Asset) *Event {
	for n := h.head; n != nil; n = n.parent {
		if _, ok := n.event.byAsset[asset.Name]; ok {
			return n.event
		}
	}
	return nil
}
