package system

import (
	"fmt"

	"github.com/kilianp07/horizon/core/logger"
	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
)

// Checker evaluates candidate branches against a System. A Checker holds no
// per-branch data and may be shared by concurrent workers; each evaluation
// uses its own Pass.
type Checker struct {
	sys     *System
	tracker *CallTracker
	log     logger.Logger
}

// CheckerOption customizes a Checker.
type CheckerOption func(*Checker)

// WithTracker records every CanPerform call in t.
func WithTracker(t *CallTracker) CheckerOption {
	return func(c *Checker) { c.tracker = t }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l logger.Logger) CheckerOption {
	return func(c *Checker) { c.log = l }
}

// NewChecker returns a Checker for sys.
func NewChecker(sys *System, opts ...CheckerOption) *Checker {
	c := &Checker{sys: sys}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Pass memoizes subsystem outcomes for the evaluation of one branch.
type Pass struct {
	evaluated []bool
	result    []bool
}

// NewPass returns a fresh pass sized for the checker's arena.
func (c *Checker) NewPass() *Pass {
	n := len(c.sys.subs)
	return &Pass{evaluated: make([]bool, n), result: make([]bool, n)}
}

// Evaluated reports whether subsystem idx ran in this pass.
func (p *Pass) Evaluated(idx int) bool { return p.evaluated[idx] }

// CheckSchedule reports whether the last event of s is feasible: every
// asset's subsystems pass, then every constraint accepts the resulting state.
// Evaluation stops at the first failure and state written before it is kept.
func (c *Checker) CheckSchedule(s *schedule.SystemSchedule) (bool, error) {
	ev := s.History.LastEvent()
	if ev == nil {
		return true, nil
	}
	pass := c.NewPass()
	for _, asset := range c.sys.Assets {
		ok, err := c.CheckSubs(pass, asset, ev)
		if err != nil || !ok {
			return false, err
		}
	}
	return c.CheckConstraints(ev)
}

// CheckSubs runs every subsystem of asset in dependency order and fails on
// the first subsystem that cannot perform.
func (c *Checker) CheckSubs(p *Pass, asset *model.Asset, ev *schedule.Event) (bool, error) {
	if ev.Assignment(asset) == nil {
		return true, nil
	}
	for _, idx := range c.sys.AssetSubsystems(asset) {
		ok, err := c.CheckSub(p, idx, ev)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// CheckSub evaluates subsystem idx after its dependencies. A subsystem that
// already ran in this pass returns its recorded outcome.
func (c *Checker) CheckSub(p *Pass, idx int, ev *schedule.Event) (bool, error) {
	if p.evaluated[idx] {
		return p.result[idx], nil
	}
	ok, err := c.CheckDependentSubsystems(p, idx, ev)
	if err != nil || !ok {
		p.evaluated[idx] = true
		return false, err
	}
	ok, err = c.canPerform(idx, ev)
	p.evaluated[idx] = true
	p.result[idx] = ok && err == nil
	return p.result[idx], err
}

// CheckDependentSubsystems evaluates the dependencies of idx, stopping at the
// first one that fails.
func (c *Checker) CheckDependentSubsystems(p *Pass, idx int, ev *schedule.Event) (bool, error) {
	for _, d := range c.sys.deps[idx] {
		ok, err := c.CheckSub(p, d, ev)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// CheckConstraints evaluates the global constraints against ev's state.
func (c *Checker) CheckConstraints(ev *schedule.Event) (bool, error) {
	for _, con := range c.sys.Constraints {
		ok, err := con.Accepts(ev.State)
		if err != nil {
			return false, err
		}
		if !ok {
			if c.log != nil {
				c.log.Debugf("constraint %s rejected event at %.2f", con.Name(), ev.Start())
			}
			return false, nil
		}
	}
	return true, nil
}

func (c *Checker) canPerform(idx int, ev *schedule.Event) (bool, error) {
	sub := c.sys.subs[idx]
	asset := sub.Asset()
	before := ev.State.Writes()
	ok, err := sub.CanPerform(ev, c.sys.Env)
	if err != nil {
		return false, fmt.Errorf("%s.%s: %w", asset.Name, sub.Name(), err)
	}
	if c.tracker != nil {
		taskType := "NONE"
		if t := ev.Task(asset); t != nil {
			taskType = t.Type
		}
		c.tracker.Track(asset.Name, sub.Name(), taskType, ev.State.Writes() != before)
	}
	return ok, nil
}
