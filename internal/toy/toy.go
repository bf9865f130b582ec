// Package toy builds the two-asset imaging scenario used across tests: each
// asset carries a power budget, a camera and an antenna, and may RECHARGE,
// image or transmit.
package toy

import (
	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/core/subsystems"
	"github.com/kilianp07/horizon/core/system"
)

// Scenario bundles everything GenerateSchedules needs.
type Scenario struct {
	Assets  []*model.Asset
	Tasks   []*model.Task
	System  *system.System
	Initial *state.SystemState
	Tracker *system.CallTracker
}

// Options tweak the scenario.
type Options struct {
	// PowerCeiling adds a FAIL_IF_HIGHER constraint on each asset's power.
	PowerCeiling float64
	// MaxTimes overrides the repeat limit of every task; zero keeps 10.
	MaxTimes int
	// InitialImages seeds the camera store of every asset.
	InitialImages int
}

const (
	InitialPower = 75.0
	Recharge     = 25.0
	ImagingCost  = 10.0
	TransmitCost = 20.0
)

// New builds the scenario.
func New(opts Options) (*Scenario, error) {
	maxTimes := opts.MaxTimes
	if maxTimes == 0 {
		maxTimes = 10
	}
	assets := []*model.Asset{{Name: "asset1"}, {Name: "asset2"}}
	tasks := []*model.Task{
		{Name: "recharge", Type: subsystems.TaskRecharge, Target: model.Target{Name: "sun", Value: 1}, MaxTimesToPerform: maxTimes},
		{Name: "imaging", Type: subsystems.TaskImaging, Target: model.Target{Name: "city", Value: 10}, MaxTimesToPerform: maxTimes},
		{Name: "transmit", Type: subsystems.TaskTransmit, Target: model.Target{Name: "ground", Value: 50}, MaxTimesToPerform: maxTimes},
	}

	initial := state.New()
	var subs []system.Subsystem
	var constraints []system.Constraint
	for _, a := range assets {
		power, err := subsystems.NewPower("power", a, subsystems.PowerParams{
			RechargeValue:         Recharge,
			MaxPower:              100,
			MinPower:              0,
			TransmitPowerRequired: TransmitCost,
			ImagePowerRequired:    ImagingCost,
		})
		if err != nil {
			return nil, err
		}
		camera, err := subsystems.NewCamera("camera", a, subsystems.CameraParams{MaxImages: 10}, "power")
		if err != nil {
			return nil, err
		}
		antenna := subsystems.NewAntenna("antenna", a, "camera")
		subs = append(subs, power, camera, antenna)

		if err := state.Init(initial, power.Key(), 0, InitialPower); err != nil {
			return nil, err
		}
		if err := state.Init(initial, state.NewKey[int](a.Name, "num_images_stored"), 0, opts.InitialImages); err != nil {
			return nil, err
		}
		if err := state.Init(initial, state.NewKey[int](a.Name, "num_transmissions"), 0, 0); err != nil {
			return nil, err
		}
		if opts.PowerCeiling > 0 {
			constraints = append(constraints, system.NewSingleConstraint(a.Name+"_power_ceiling", power.Key(), opts.PowerCeiling, system.FailIfHigher))
		}
	}

	tracker := system.NewCallTracker()
	sys, err := system.NewSystem(assets, subs, constraints, nil)
	if err != nil {
		return nil, err
	}
	return &Scenario{Assets: assets, Tasks: tasks, System: sys, Initial: initial, Tracker: tracker}, nil
}

// Task returns the task of the given type.
func (s *Scenario) Task(typ string) *model.Task {
	for _, t := range s.Tasks {
		if t.Type == typ {
			return t
		}
	}
	return nil
}
