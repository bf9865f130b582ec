package scenario

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kilianp07/horizon/core/factory"
	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/system"
)

// SubsystemFactory builds a subsystem of asset from its configuration.
type SubsystemFactory func(asset *model.Asset, cfg factory.ComponentConfig, deps []string) (system.Subsystem, error)

var (
	mu          sync.RWMutex
	subsystems  = map[string]SubsystemFactory{}
	constraints = factory.NewRegistry[system.Constraint]()
)

// RegisterSubsystem adds a subsystem type. Registering a type twice is an error.
func RegisterSubsystem(typ string, f SubsystemFactory) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := subsystems[typ]; ok {
		return fmt.Errorf("subsystem type %q already registered", typ)
	}
	subsystems[typ] = f
	return nil
}

// RegisterConstraint adds a constraint type.
func RegisterConstraint(typ string, c factory.Constructor[system.Constraint]) error {
	return constraints.Register(typ, c)
}

// SubsystemTypes lists the registered subsystem types.
func SubsystemTypes() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(subsystems))
	for t := range subsystems {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ConstraintTypes lists the registered constraint types.
func ConstraintTypes() []string { return constraints.Types() }

func newSubsystem(asset *model.Asset, cfg factory.ComponentConfig, deps []string) (system.Subsystem, error) {
	mu.RLock()
	f, ok := subsystems[cfg.Type]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", factory.ErrUnknownType, cfg.Type)
	}
	return f(asset, cfg, deps)
}
