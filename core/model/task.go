package model

import "fmt"

// Target is the objective a task serves. Only its value is read by the scheduler.
type Target struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Window is a half-open time interval [Start, End) in simulation seconds.
type Window struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Overlaps reports whether the window intersects [start, end).
func (w Window) Overlaps(start, end float64) bool { return w.Start < end && w.End > start }

// Task is a named unit of work from the task pool. Tasks are immutable once
// loaded and shared by pointer across all branches.
type Task struct {
	Name              string  `json:"name" yaml:"name"`
	Type              string  `json:"type" yaml:"type"`
	Target            Target  `json:"target" yaml:"target"`
	MaxTimesToPerform int     `json:"max_times" yaml:"max_times"`
	Window            *Window `json:"window,omitempty" yaml:"window,omitempty"`
}

// Validate checks the fields the scheduler depends on.
func (t *Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if t.Type == "" {
		return fmt.Errorf("task %s: type is required", t.Name)
	}
	if t.MaxTimesToPerform < 1 {
		return fmt.Errorf("task %s: max_times must be >= 1", t.Name)
	}
	if t.Window != nil && t.Window.Start >= t.Window.End {
		return fmt.Errorf("task %s: window start must be before end", t.Name)
	}
	return nil
}
