package state

import (
	"fmt"
	"sort"
)

type profile interface {
	lastTime() (float64, bool)
	kind() byte
	size() int
	parts(name string) []string
	points() []Point
}

// Point is a type-erased sample used by exporters.
type Point struct {
	Time  float64 `json:"time"`
	Value string  `json:"value"`
}

// SystemState maps state-variable keys to profiles. See the package
// documentation for the layering rules.
type SystemState struct {
	parent *SystemState
	layer  map[string]profile
	writes int
}

// New returns an empty root state.
func New() *SystemState {
	return &SystemState{layer: make(map[string]profile)}
}

// NewChild forks parent. The child starts empty and reads through to parent.
func NewChild(parent *SystemState) *SystemState {
	return &SystemState{parent: parent, layer: make(map[string]profile)}
}

// Parent returns the layer this state was forked from, nil for a root.
func (s *SystemState) Parent() *SystemState { return s.parent }

// Writes counts the samples written to this layer.
func (s *SystemState) Writes() int { return s.writes }

// Declare registers key in this layer with an empty profile.
func Declare[T Value](s *SystemState, key Key[T]) error {
	if raw, ok := s.lookup(key.name); ok {
		if _, typed := raw.(*Profile[T]); !typed {
			return fmt.Errorf("%w: %s", ErrKeyType, key.name)
		}
		return nil
	}
	s.layer[key.name] = &Profile[T]{}
	return nil
}

// Init declares key and records its initial sample.
func Init[T Value](s *SystemState, key Key[T], t float64, v T) error {
	if err := Declare(s, key); err != nil {
		return err
	}
	return Add(s, key, t, v)
}

// Add records v at time t for key in this layer. The key must be declared
// somewhere in the chain, and t must be later than every sample of the key
// visible from this layer.
func Add[T Value](s *SystemState, key Key[T], t float64, v T) error {
	latest, known, err := latestTime[T](s, key.name)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key.name)
	}
	if latest.ok && t <= latest.time {
		return fmt.Errorf("%w: %s written at %.2f, latest sample at %.2f", ErrCausality, key.name, t, latest.time)
	}
	p, ok := s.layer[key.name].(*Profile[T])
	if !ok {
		p = &Profile[T]{}
		s.layer[key.name] = p
	}
	p.samples = append(p.samples, Sample[T]{Time: t, Value: v})
	s.writes++
	return nil
}

// Last returns the most recent sample of key visible from s.
func Last[T Value](s *SystemState, key Key[T]) (Sample[T], error) {
	found := false
	for cur := s; cur != nil; cur = cur.parent {
		raw, ok := cur.layer[key.name]
		if !ok {
			continue
		}
		p, typed := raw.(*Profile[T])
		if !typed {
			return Sample[T]{}, fmt.Errorf("%w: %s", ErrKeyType, key.name)
		}
		found = true
		if last, ok := p.Last(); ok {
			return last, nil
		}
	}
	if !found {
		return Sample[T]{}, fmt.Errorf("%w: %s", ErrUnknownKey, key.name)
	}
	return Sample[T]{}, fmt.Errorf("%w: %s", ErrEmptyProfile, key.name)
}

// LastValue is Last without the timestamp.
func LastValue[T Value](s *SystemState, key Key[T]) (T, error) {
	sample, err := Last(s, key)
	return sample.Value, err
}

// ProfileOf merges every layer of the chain into a single profile for key.
func ProfileOf[T Value](s *SystemState, key Key[T]) (*Profile[T], error) {
	var layers []*Profile[T]
	for cur := s; cur != nil; cur = cur.parent {
		raw, ok := cur.layer[key.name]
		if !ok {
			continue
		}
		p, typed := raw.(*Profile[T])
		if !typed {
			return nil, fmt.Errorf("%w: %s", ErrKeyType, key.name)
		}
		layers = append(layers, p)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key.name)
	}
	merged := &Profile[T]{}
	for i := len(layers) - 1; i >= 0; i-- {
		merged.samples = append(merged.samples, layers[i].samples...)
	}
	return merged, nil
}

// Has reports whether name is declared anywhere in the chain.
func (s *SystemState) Has(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

// Keys lists every variable name visible from s, sorted.
func (s *SystemState) Keys() []string {
	seen := make(map[string]struct{})
	for cur := s; cur != nil; cur = cur.parent {
		for name := range cur.layer {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LayerParts returns the canonical, sorted "K:name:time:value" strings of the
// samples written to this layer only.
func (s *SystemState) LayerParts() []string {
	var out []string
	for name, p := range s.layer {
		out = append(out, p.parts(name)...)
	}
	sort.Strings(out)
	return out
}

// SnapshotParts is LayerParts over the whole chain.
func (s *SystemState) SnapshotParts() []string {
	var out []string
	for cur := s; cur != nil; cur = cur.parent {
		out = append(out, cur.LayerParts()...)
	}
	sort.Strings(out)
	return out
}

// Points returns every sample of name visible from s in time order.
func (s *SystemState) Points(name string) []Point {
	var layers [][]Point
	for cur := s; cur != nil; cur = cur.parent {
		if p, ok := cur.layer[name]; ok {
			layers = append(layers, p.points())
		}
	}
	var out []Point
	for i := len(layers) - 1; i >= 0; i-- {
		out = append(out, layers[i]...)
	}
	return out
}

func (s *SystemState) lookup(name string) (profile, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if p, ok := cur.layer[name]; ok {
			return p, true
		}
	}
	return nil, false
}

type latestSample struct {
	time float64
	ok   bool
}

func latestTime[T Value](s *SystemState, name string) (latestSample, bool, error) {
	known := false
	for cur := s; cur != nil; cur = cur.parent {
		raw, ok := cur.layer[name]
		if !ok {
			continue
		}
		if _, typed := raw.(*Profile[T]); !typed {
			return latestSample{}, true, fmt.Errorf("%w: %s", ErrKeyType, name)
		}
		known = true
		if t, ok := raw.lastTime(); ok {
			return latestSample{time: t, ok: true}, true, nil
		}
	}
	return latestSample{}, known, nil
}
