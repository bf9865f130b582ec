package subsystems

import (
	"fmt"
	"strings"

	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/core/system"
)

// PowerParams configures Power.
type PowerParams struct {
	RechargeValue         float64 `json:"recharge_value"`
	MaxPower              float64 `json:"max_power"`
	MinPower              float64 `json:"min_power"`
	TransmitPowerRequired float64 `json:"transmit_power_required"`
	ImagePowerRequired    float64 `json:"image_power_required"`
}

// Validate checks the parameter ranges.
func (p PowerParams) Validate() error {
	if p.MaxPower <= p.MinPower {
		return fmt.Errorf("power: max_power must exceed min_power")
	}
	if p.RechargeValue < 0 || p.TransmitPowerRequired < 0 || p.ImagePowerRequired < 0 {
		return fmt.Errorf("power: energy amounts must be non-negative")
	}
	return nil
}

// Power tracks the energy budget of an asset in "<asset>.checker_power".
// RECHARGE adds RechargeValue unless that would exceed MaxPower; IMAGING and
// TRANSMIT draw their requirement and fail when the budget is short or would
// fall below MinPower. Other task types are not supported.
type Power struct {
	system.Base
	params PowerParams
	key    state.Key[float64]
}

// NewPower returns the power model of asset.
func NewPower(name string, asset *model.Asset, params PowerParams, deps ...string) (*Power, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Power{
		Base:   system.NewBase(name, asset, deps...),
		params: params,
		key:    state.NewKey[float64](asset.Name, "checker_power"),
	}, nil
}

// Key returns the bound power variable.
func (p *Power) Key() state.Key[float64] { return p.key }

// SetStateVariableKey implements system.Subsystem.
func (p *Power) SetStateVariableKey(name string) error {
	want := p.Asset().StatePrefix() + ".checker_power"
	if strings.ToLower(name) != want {
		return fmt.Errorf("power: unknown state variable %q", name)
	}
	p.key = state.NewKey[float64](p.Asset().Name, "checker_power")
	return nil
}

// CanPerform implements system.Subsystem.
func (p *Power) CanPerform(ev *schedule.Event, _ system.Environment) (bool, error) {
	task := ev.Task(p.Asset())
	if task == nil {
		return true, nil
	}
	level, err := state.LastValue(ev.State, p.key)
	if err != nil {
		return false, err
	}
	at := ev.TaskStart(p.Asset()) + WriteOffset

	var next float64
	switch strings.ToUpper(task.Type) {
	case TaskRecharge:
		if level+p.params.RechargeValue > p.params.MaxPower {
			return false, nil
		}
		next = level + p.params.RechargeValue
	case TaskTransmit:
		if level < p.params.TransmitPowerRequired {
			return false, nil
		}
		next = level - p.params.TransmitPowerRequired
	case TaskImaging:
		if level < p.params.ImagePowerRequired {
			return false, nil
		}
		next = level - p.params.ImagePowerRequired
	default:
		return false, nil
	}
	if next < p.params.MinPower {
		return false, nil
	}
	return true, state.Add(ev.State, p.key, at, next)
}
