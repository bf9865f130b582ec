package system

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kilianp07/horizon/core/model"
)

var (
	// ErrCycle is returned when subsystem dependencies form a cycle.
	ErrCycle = errors.New("subsystem dependency cycle")
	// ErrUnknownDependency is returned for a dependency naming no subsystem.
	ErrUnknownDependency = errors.New("unknown subsystem dependency")
)

// System is the arena of every subsystem in a scenario. Dependencies are
// resolved once into index edges and a topological order.
type System struct {
	Assets      []*model.Asset
	Constraints []Constraint
	Env         Environment

	subs    []Subsystem
	deps    [][]int
	order   []int
	byAsset map[string][]int
}

// NewSystem validates the subsystem graph and fixes its evaluation order.
// Among subsystems that are ready at the same time the one declared first
// goes first, so the order is stable for a given scenario.
func NewSystem(assets []*model.Asset, subs []Subsystem, constraints []Constraint, env Environment) (*System, error) {
	known := make(map[string]bool, len(assets))
	for _, a := range assets {
		if known[a.Name] {
			return nil, fmt.Errorf("duplicate asset %q", a.Name)
		}
		known[a.Name] = true
	}
	index := make(map[string]int, len(subs))
	for i, s := range subs {
		if s.Asset() == nil || !known[s.Asset().Name] {
			return nil, fmt.Errorf("subsystem %q is attached to an unknown asset", s.Name())
		}
		id := qualified(s.Asset().Name, s.Name())
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("duplicate subsystem %q", id)
		}
		index[id] = i
	}

	deps := make([][]int, len(subs))
	for i, s := range subs {
		for _, d := range s.Dependencies() {
			id := d
			if !strings.Contains(d, ".") {
				id = qualified(s.Asset().Name, d)
			}
			j, ok := index[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s depends on %s", ErrUnknownDependency, qualified(s.Asset().Name, s.Name()), id)
			}
			deps[i] = append(deps[i], j)
		}
	}

	order, err := topoOrder(subs, deps)
	if err != nil {
		return nil, err
	}
	byAsset := make(map[string][]int, len(assets))
	for _, i := range order {
		name := subs[i].Asset().Name
		byAsset[name] = append(byAsset[name], i)
	}
	return &System{
		Assets:      assets,
		Constraints: constraints,
		Env:         env,
		subs:        subs,
		deps:        deps,
		order:       order,
		byAsset:     byAsset,
	}, nil
}

// Subsystems returns the arena in declaration order.
func (s *System) Subsystems() []Subsystem { return s.subs }

// Order returns the topological evaluation order as arena indices.
func (s *System) Order() []int { return s.order }

// AssetSubsystems returns the arena indices of asset's subsystems in
// evaluation order.
func (s *System) AssetSubsystems(asset *model.Asset) []int { return s.byAsset[asset.Name] }

// Lookup returns the arena index of a subsystem.
func (s *System) Lookup(asset, name string) (int, bool) {
	for i, sub := range s.subs {
		if sub.Asset().Name == asset && sub.Name() == name {
			return i, true
		}
	}
	return 0, false
}

func qualified(asset, name string) string { return asset + "." + name }

type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func topoOrder(subs []Subsystem, deps [][]int) ([]int, error) {
	indegree := make([]int, len(subs))
	dependents := make([][]int, len(subs))
	for i, ds := range deps {
		indegree[i] = len(ds)
		for _, d := range ds {
			dependents[d] = append(dependents[d], i)
		}
	}
	ready := &indexHeap{}
	for i, n := range indegree {
		if n == 0 {
			*ready = append(*ready, i)
		}
	}
	heap.Init(ready)
	order := make([]int, 0, len(subs))
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		order = append(order, i)
		for _, d := range dependents[i] {
			indegree[d]--
			if indegree[d] == 0 {
				heap.Push(ready, d)
			}
		}
	}
	if len(order) != len(subs) {
		var stuck []string
		for i, n := range indegree {
			if n > 0 {
				stuck = append(stuck, qualified(subs[i].Asset().Name, subs[i].Name()))
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
	}
	return order, nil
}
