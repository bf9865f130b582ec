package subsystems

import (
	"fmt"
	"strings"

	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/core/system"
)

// CameraParams configures Camera.
type CameraParams struct {
	MaxImages int `json:"max_images"`
}

// Camera stores one image per IMAGING task in "<asset>.num_images_stored"
// until MaxImages is reached. Other tasks pass untouched.
type Camera struct {
	system.Base
	params CameraParams
	images state.Key[int]
}

// NewCamera returns the imaging payload of asset.
func NewCamera(name string, asset *model.Asset, params CameraParams, deps ...string) (*Camera, error) {
	if params.MaxImages < 1 {
		return nil, fmt.Errorf("camera: max_images must be >= 1")
	}
	return &Camera{
		Base:   system.NewBase(name, asset, deps...),
		params: params,
		images: state.NewKey[int](asset.Name, "num_images_stored"),
	}, nil
}

// SetStateVariableKey implements system.Subsystem.
func (c *Camera) SetStateVariableKey(name string) error {
	if strings.ToLower(name) != c.Asset().StatePrefix()+".num_images_stored" {
		return fmt.Errorf("camera: unknown state variable %q", name)
	}
	c.images = state.NewKey[int](c.Asset().Name, "num_images_stored")
	return nil
}

// CanPerform implements system.Subsystem.
func (c *Camera) CanPerform(ev *schedule.Event, _ system.Environment) (bool, error) {
	task := ev.Task(c.Asset())
	if task == nil || !strings.EqualFold(task.Type, TaskImaging) {
		return true, nil
	}
	stored, err := state.LastValue(ev.State, c.images)
	if err != nil {
		return false, err
	}
	if stored >= c.params.MaxImages {
		return false, nil
	}
	return true, state.Add(ev.State, c.images, ev.TaskStart(c.Asset())+WriteOffset, stored+1)
}
