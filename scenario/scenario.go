// Package scenario loads assets, tasks, subsystems, constraints and the
// initial state from a YAML file and assembles the system the scheduler
// searches.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/horizon/core/factory"
	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/core/system"
)

// File is the YAML document.
type File struct {
	Name        string                    `yaml:"name"`
	Tasks       []model.Task              `yaml:"tasks"`
	Assets      []AssetSpec               `yaml:"assets"`
	State       []Variable                `yaml:"state"`
	Constraints []factory.ComponentConfig `yaml:"constraints"`
	// Evaluator, when set, takes precedence over the configured one.
	Evaluator *factory.ComponentConfig `yaml:"evaluator"`
}

// AssetSpec describes one asset with its state and subsystems.
type AssetSpec struct {
	Name       string          `yaml:"name"`
	Dynamic    bool            `yaml:"dynamic"`
	State      []Variable      `yaml:"state"`
	Subsystems []SubsystemSpec `yaml:"subsystems"`
}

// SubsystemSpec is a component plus its dependencies and the state
// variables it binds.
type SubsystemSpec struct {
	factory.ComponentConfig `yaml:",inline"`
	DependsOn               []string `yaml:"depends_on"`
	States                  []string `yaml:"states"`
}

// Variable is an initial state value at time zero. Type is one of double,
// int or bool; double is the default.
type Variable struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
}

// Scenario is a loaded, ready to run scenario.
type Scenario struct {
	Name      string
	Assets    []*model.Asset
	Tasks     []*model.Task
	System    *system.System
	Initial   *state.SystemState
	Evaluator *factory.ComponentConfig
}

// Load reads and builds the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and builds a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return f.Build()
}

// Build validates the document and assembles the system.
func (f *File) Build() (*Scenario, error) {
	if len(f.Assets) == 0 {
		return nil, errors.New("at least one asset is required")
	}
	sc := &Scenario{Name: f.Name, Initial: state.New(), Evaluator: f.Evaluator}

	seen := map[string]bool{}
	for i := range f.Tasks {
		t := f.Tasks[i]
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate task %q", t.Name)
		}
		seen[t.Name] = true
		sc.Tasks = append(sc.Tasks, &t)
	}

	for _, v := range f.State {
		if err := initVariable(sc.Initial, v.Name, v); err != nil {
			return nil, err
		}
	}

	var subs []system.Subsystem
	for _, as := range f.Assets {
		if as.Name == "" {
			return nil, errors.New("asset name is required")
		}
		asset := &model.Asset{Name: as.Name, Dynamic: as.Dynamic}
		sc.Assets = append(sc.Assets, asset)
		for _, v := range as.State {
			if err := initVariable(sc.Initial, asset.StatePrefix()+"."+v.Name, v); err != nil {
				return nil, err
			}
		}
		for _, ss := range as.Subsystems {
			sub, err := buildSubsystem(asset, ss)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
	}

	var cons []system.Constraint
	for _, c := range f.Constraints {
		con, err := constraints.Create(c)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", c.Name, err)
		}
		cons = append(cons, con)
	}

	sys, err := system.NewSystem(sc.Assets, subs, cons, nil)
	if err != nil {
		return nil, err
	}
	sc.System = sys
	return sc, nil
}

func buildSubsystem(asset *model.Asset, ss SubsystemSpec) (system.Subsystem, error) {
	cfg := ss.ComponentConfig
	if cfg.Name == "" {
		cfg.Name = cfg.Type
	}
	sub, err := newSubsystem(asset, cfg, ss.DependsOn)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", asset.Name, cfg.Name, err)
	}
	for _, name := range ss.States {
		if err := sub.SetStateVariableKey(asset.StatePrefix() + "." + strings.ToLower(name)); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", asset.Name, cfg.Name, err)
		}
	}
	return sub, nil
}

func initVariable(s *state.SystemState, name string, v Variable) error {
	if v.Name == "" {
		return errors.New("state variable name is required")
	}
	if s.Has(strings.ToLower(name)) {
		return fmt.Errorf("duplicate state variable %q", name)
	}
	switch strings.ToLower(v.Type) {
	case "", "double", "float":
		return initTyped[float64](s, name, v.Value)
	case "int":
		return initTyped[int](s, name, v.Value)
	case "bool":
		return initTyped[bool](s, name, v.Value)
	}
	return fmt.Errorf("state %s: unknown type %q", name, v.Type)
}

// initTyped decodes node as T; a missing value is the zero value.
func initTyped[T state.Value](s *state.SystemState, name string, node yaml.Node) error {
	var x T
	if !node.IsZero() {
		if err := node.Decode(&x); err != nil {
			return fmt.Errorf("state %s: %w", name, err)
		}
	}
	return state.Init(s, state.ParseKey[T](name), 0, x)
}
