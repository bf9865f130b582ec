// Package plugins registers the built-in subsystem and constraint types with
// the scenario loader. Import it for its side effects.
package plugins

import (
	"fmt"

	"github.com/kilianp07/horizon/core/factory"
	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/core/subsystems"
	"github.com/kilianp07/horizon/core/system"
	"github.com/kilianp07/horizon/scenario"
)

// SingleParams configures a "single" constraint.
type SingleParams struct {
	Variable   string  `json:"variable"`
	Value      float64 `json:"value"`
	Comparison string  `json:"comparison"`
}

func init() {
	mustSubsystem("power", func(a *model.Asset, c factory.ComponentConfig, deps []string) (system.Subsystem, error) {
		var p subsystems.PowerParams
		if err := factory.Decode(c.Params, &p); err != nil {
			return nil, err
		}
		return subsystems.NewPower(c.Name, a, p, deps...)
	})
	mustSubsystem("camera", func(a *model.Asset, c factory.ComponentConfig, deps []string) (system.Subsystem, error) {
		var p subsystems.CameraParams
		if err := factory.Decode(c.Params, &p); err != nil {
			return nil, err
		}
		return subsystems.NewCamera(c.Name, a, p, deps...)
	})
	mustSubsystem("antenna", func(a *model.Asset, c factory.ComponentConfig, deps []string) (system.Subsystem, error) {
		if err := factory.Decode(c.Params, &struct{}{}); err != nil {
			return nil, err
		}
		return subsystems.NewAntenna(c.Name, a, deps...), nil
	})
	mustSubsystem("always_true", func(a *model.Asset, c factory.ComponentConfig, deps []string) (system.Subsystem, error) {
		if err := factory.Decode(c.Params, &struct{}{}); err != nil {
			return nil, err
		}
		return subsystems.NewAlwaysTrue(c.Name, a, deps...), nil
	})
	mustSubsystem("task_time", func(a *model.Asset, c factory.ComponentConfig, deps []string) (system.Subsystem, error) {
		var p subsystems.TaskTimeParams
		if err := factory.Decode(c.Params, &p); err != nil {
			return nil, err
		}
		return subsystems.NewTaskTime(c.Name, a, p, deps...), nil
	})

	if err := scenario.RegisterConstraint("single", func(c factory.ComponentConfig) (system.Constraint, error) {
		var p SingleParams
		if err := factory.Decode(c.Params, &p); err != nil {
			return nil, err
		}
		if p.Variable == "" {
			return nil, fmt.Errorf("single: variable is required")
		}
		typ, err := system.ParseConstraintType(p.Comparison)
		if err != nil {
			return nil, err
		}
		name := c.Name
		if name == "" {
			name = p.Variable + "_" + string(typ)
		}
		return system.NewSingleConstraint(name, state.ParseKey[float64](p.Variable), p.Value, typ), nil
	}); err != nil {
		panic(err)
	}
}

func mustSubsystem(typ string, f scenario.SubsystemFactory) {
	if err := scenario.RegisterSubsystem(typ, f); err != nil {
		panic(err)
	}
}
