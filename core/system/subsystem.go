package system

import (
	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
)

// Environment is the opaque domain context handed to every subsystem call.
// The scheduler never inspects it.
type Environment any

// Subsystem is a feasibility model attached to one asset.
//
// Implementations must not keep per-branch data: everything a subsystem
// reads or writes lives in the state of the event it is given, which lets one
// instance serve every branch concurrently. Subsystems may move task start
// and end inside the event but never the event boundaries.
type Subsystem interface {
	// Name is unique per asset.
	Name() string
	Asset() *model.Asset
	// Dependencies lists the subsystems evaluated before this one. Names
	// refer to the same asset unless written "<asset>.<subsystem>".
	Dependencies() []string
	CanPerform(ev *schedule.Event, env Environment) (bool, error)
	// SetStateVariableKey binds a declared state variable name. Unknown
	// names are rejected.
	SetStateVariableKey(name string) error
}

// Base carries the identity fields shared by most subsystems.
type Base struct {
	name  string
	asset *model.Asset
	deps  []string
}

// NewBase returns a Base for the named subsystem of asset.
func NewBase(name string, asset *model.Asset, deps ...string) Base {
	return Base{name: name, asset: asset, deps: deps}
}

// Name implements Subsystem.
func (b Base) Name() string { return b.name }

// Asset implements Subsystem.
func (b Base) Asset() *model.Asset { return b.asset }

// Dependencies implements Subsystem.
func (b Base) Dependencies() []string { return b.deps }
