package factory

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// ErrUnknownType is returned by Create when no constructor matches.
var ErrUnknownType = errors.New("unknown component type")

// ComponentConfig describes one configured component.
type ComponentConfig struct {
	Type   string         `json:"type" yaml:"type"`
	Name   string         `json:"name,omitempty" yaml:"name,omitempty"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Constructor builds a T from its configuration.
type Constructor[T any] func(ComponentConfig) (T, error)

// Registry maps component types to constructors.
type Registry[T any] struct {
	mu    sync.RWMutex
	ctors map[string]Constructor[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{ctors: make(map[string]Constructor[T])}
}

// Register adds a constructor. Registering the same type twice is an error.
func (r *Registry[T]) Register(typ string, c Constructor[T]) error {
	if c == nil {
		return fmt.Errorf("nil constructor for %q", typ)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ctors[typ]; ok {
		return fmt.Errorf("constructor already registered for %q", typ)
	}
	r.ctors[typ] = c
	return nil
}

// MustRegister is Register for package init blocks.
func (r *Registry[T]) MustRegister(typ string, c Constructor[T]) {
	if err := r.Register(typ, c); err != nil {
		panic(err)
	}
}

// Create instantiates the component described by cfg.
func (r *Registry[T]) Create(cfg ComponentConfig) (T, error) {
	r.mu.RLock()
	c, ok := r.ctors[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w %q", ErrUnknownType, cfg.Type)
	}
	return c(cfg)
}

// Types lists the registered type names in sorted order.
func (r *Registry[T]) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Decode fills out from raw params using json tags. Unknown keys are rejected
// so typos in scenario files surface at load time.
func Decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}
