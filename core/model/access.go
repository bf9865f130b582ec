package model

import (
	"errors"
	"fmt"
)

// ErrInvalidAccess flags an access window that cannot be placed on the current step.
var ErrInvalidAccess = errors.New("invalid access")

// Access pairs an asset with a task over the window [Start, End). A nil Task
// is the explicit "no task" choice for the asset.
type Access struct {
	Asset *Asset
	Task  *Task
	Start float64
	End   float64
}

// NoTask returns the idle choice for asset at time t.
func NoTask(asset *Asset, t float64) Access {
	return Access{Asset: asset, Start: t, End: t}
}

// Idle reports whether the access carries no task.
func (a Access) Idle() bool { return a.Task == nil }

// Validate checks that the window can be clamped onto the step [current, next).
func (a Access) Validate(current, next float64) error {
	if a.Idle() {
		return nil
	}
	switch {
	case a.Start >= a.End:
		return fmt.Errorf("%w: %s/%s start %.2f not before end %.2f", ErrInvalidAccess, a.Asset.Name, a.Task.Name, a.Start, a.End)
	case a.End <= current:
		return fmt.Errorf("%w: %s/%s closes at %.2f before step start %.2f", ErrInvalidAccess, a.Asset.Name, a.Task.Name, a.End, current)
	case a.Start >= next:
		return fmt.Errorf("%w: %s/%s opens at %.2f after step end %.2f", ErrInvalidAccess, a.Asset.Name, a.Task.Name, a.Start, next)
	}
	return nil
}

func (a Access) String() string {
	if a.Idle() {
		return a.Asset.Name + ":-"
	}
	return fmt.Sprintf("%s:%s[%.2f,%.2f)", a.Asset.Name, a.Task.Name, a.Start, a.End)
}
