package subsystems

import (
	"fmt"
	"strings"

	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/core/system"
)

// Antenna downlinks one stored image per TRANSMIT task, moving it from
// "<asset>.num_images_stored" to "<asset>.num_transmissions". A TRANSMIT with
// nothing stored is infeasible.
type Antenna struct {
	system.Base
	images        state.Key[int]
	transmissions state.Key[int]
}

// NewAntenna returns the antenna of asset.
func NewAntenna(name string, asset *model.Asset, deps ...string) *Antenna {
	return &Antenna{
		Base:          system.NewBase(name, asset, deps...),
		images:        state.NewKey[int](asset.Name, "num_images_stored"),
		transmissions: state.NewKey[int](asset.Name, "num_transmissions"),
	}
}

// SetStateVariableKey implements system.Subsystem.
func (a *Antenna) SetStateVariableKey(name string) error {
	switch strings.ToLower(name) {
	case a.Asset().StatePrefix() + ".num_images_stored":
		a.images = state.NewKey[int](a.Asset().Name, "num_images_stored")
	case a.Asset().StatePrefix() + ".num_transmissions":
		a.transmissions = state.NewKey[int](a.Asset().Name, "num_transmissions")
	default:
		return fmt.Errorf("antenna: unknown state variable %q", name)
	}
	return nil
}

// CanPerform implements system.Subsystem.
func (a *Antenna) CanPerform(ev *schedule.Event, _ system.Environment) (bool, error) {
	task := ev.Task(a.Asset())
	if task == nil || !strings.EqualFold(task.Type, TaskTransmit) {
		return true, nil
	}
	stored, err := state.LastValue(ev.State, a.images)
	if err != nil {
		return false, err
	}
	if stored <= 0 {
		return false, nil
	}
	sent, err := state.LastValue(ev.State, a.transmissions)
	if err != nil {
		return false, err
	}
	at := ev.TaskStart(a.Asset()) + WriteOffset
	if err := state.Add(ev.State, a.images, at, stored-1); err != nil {
		return false, err
	}
	return true, state.Add(ev.State, a.transmissions, at, sent+1)
}
