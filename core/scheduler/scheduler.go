package scheduler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kilianp07/horizon/core/logger"
	"github.com/kilianp07/horizon/core/metrics"
	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/core/system"
)

// Hash history contexts.
const (
	HashContextCheck = "Check"
	HashContextEval  = "EvalAll"
)

// HashRecorder receives the state hash chain tips of a branch list.
type HashRecorder interface {
	Record(step int, context string, list []*schedule.SystemSchedule) error
}

// EventPublisher receives one StepEvent per step and a final one.
type EventPublisher interface {
	Publish(StepEvent)
}

// FinalPublisher is implemented by publishers that can wait for subscriber
// buffer space. The final StepEvent of a run goes through it when available.
type FinalPublisher interface {
	PublishWait(ctx context.Context, ev StepEvent) error
}

// finalPublishTimeout bounds the wait for slow subscribers on the final event.
const finalPublishTimeout = 5 * time.Second

// StepEvent reports the progress of a run.
type StepEvent struct {
	metrics.StepStats
	// BestID is the ID of the highest valued branch kept, if any.
	BestID string
	Final  bool
}

// Run is the outcome of a search.
type Run struct {
	ID        string
	Schedules []*schedule.SystemSchedule
	Steps     []metrics.StepStats
	Duration  time.Duration
}

// Best returns the highest valued branch.
func (r *Run) Best() *schedule.SystemSchedule {
	if len(r.Schedules) == 0 {
		return nil
	}
	return r.Schedules[0]
}

// Scheduler searches the schedule space of a system.
type Scheduler struct {
	params  Params
	eval    schedule.Evaluator
	access  AccessModel
	logger  logger.Logger
	sink    metrics.MetricsSink
	bus     EventPublisher
	hashes  HashRecorder
	console io.Writer
	tracker *system.CallTracker
	name    string
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(s *Scheduler) { s.logger = l } }

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.MetricsSink) Option { return func(s *Scheduler) { s.sink = m } }

// WithEventBus publishes step events on p.
func WithEventBus(p EventPublisher) Option { return func(s *Scheduler) { s.bus = p } }

// WithHashRecorder records the state hash chain. It only takes effect when
// hash tracking is enabled.
func WithHashRecorder(r HashRecorder) Option { return func(s *Scheduler) { s.hashes = r } }

// WithConsole sets where step summaries are printed.
func WithConsole(w io.Writer) Option { return func(s *Scheduler) { s.console = w } }

// WithAccessModel replaces DefaultAccessModel.
func WithAccessModel(am AccessModel) Option { return func(s *Scheduler) { s.access = am } }

// WithScenario names the scenario in run summaries.
func WithScenario(name string) Option { return func(s *Scheduler) { s.name = name } }

// WithTracker records every subsystem call.
func WithTracker(t *system.CallTracker) Option { return func(s *Scheduler) { s.tracker = t } }

// New returns a Scheduler. Zero params are defaulted before validation.
func New(p Params, eval schedule.Evaluator, opts ...Option) (*Scheduler, error) {
	if eval == nil {
		return nil, fmt.Errorf("scheduler: nil evaluator")
	}
	p.SetDefaults()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	s := &Scheduler{
		params: p,
		eval:   eval,
		access: DefaultAccessModel{},
		logger: logger.NopLogger{},
		sink:   metrics.NopSink{},
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Params returns the effective parameters.
func (s *Scheduler) Params() Params { return s.params }

// GenerateSchedules runs the search and returns the final branches, best
// first.
func (s *Scheduler) GenerateSchedules(sys *system.System, tasks []*model.Task, initial *state.SystemState) ([]*schedule.SystemSchedule, error) {
	run, err := s.Run(sys, tasks, initial)
	if err != nil {
		return nil, err
	}
	return run.Schedules, nil
}

// Run is GenerateSchedules with the run statistics.
func (s *Scheduler) Run(sys *system.System, tasks []*model.Task, initial *state.SystemState) (*Run, error) {
	p := s.params
	began := time.Now()
	rc := newRunContext()
	s.logger.Infow("simulating", map[string]any{"run_id": rc.id, "start": p.Start, "end": p.End, "step": p.Step})

	empty := schedule.NewEmpty(initial)
	schedules := []*schedule.SystemSchedule{empty}
	checker := system.NewChecker(sys, system.WithTracker(s.tracker), system.WithLogger(s.logger))

	pregen := CanPregenerateAccesses(sys.Assets)
	var accesses map[string][]model.Access
	if pregen {
		accesses = PregenerateAccesses(s.access, sys.Assets, tasks, p.Start, p.End)
		n := 0
		for _, list := range accesses {
			n += len(list)
		}
		s.logger.Infof("pregenerated %d accesses", n)
	}

	run := &Run{ID: rc.id}
	for k := 0; p.StepTime(k) < p.End; k++ {
		current := p.StepTime(k)
		rc.advance(current, p.Step)
		s.logger.Debugf("simulation time %.2f", current)

		var combos [][]model.Access
		if pregen {
			combos = CurrentAccessCombos(accesses, sys.Assets, current, rc.next)
		} else {
			combos = GenerateExhaustiveSystemSchedules(s.access, sys.Assets, tasks, current, rc.next, p.End)
		}

		schedules, rc.cropped = CropToMaxSchedules(schedules, empty, s.eval, p.MaxSchedules, p.CropTo)

		candidates, err := TimeDeconfliction(schedules, combos, current, p.Step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", rc.step, err)
		}
		rc.potential = len(candidates)

		feasible, passed, err := CheckAllPotentialSchedules(checker, candidates, p.Workers)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", rc.step, err)
		}
		if p.HashTracking {
			for i, c := range candidates {
				c.StateHash = schedule.ChainStateHash(c.StateHash, c, current, passed[i])
			}
			s.recordHashes(rc.step, HashContextCheck, feasible)
		}

		schedule.EvaluateAll(feasible, s.eval)
		schedule.SortDeterministic(feasible, true)
		if p.HashTracking {
			for _, f := range feasible {
				f.StateHash = schedule.ChainEvalHash(f.StateHash, f.Value)
			}
			s.recordHashes(rc.step, HashContextEval, feasible)
		}
		rc.generated = len(feasible)

		schedules = MergeAndClearSystemSchedules(&schedules, &feasible)
		rc.carriedOver = len(schedules) - rc.generated
		UpdateScheduleIDs(schedules, rc.step)

		st := rc.stats(len(schedules), bestValue(schedules))
		s.observe(st)
		run.Steps = append(run.Steps, st)
		writeSummary(s.console, p.Console, p, st, schedules, false)
		s.publish(StepEvent{StepStats: st, BestID: bestID(schedules)})
	}

	schedules, cropped := CropToMaxSchedules(schedules, empty, s.eval, p.MaxSchedules, p.CropTo)
	schedule.EvaluateAll(schedules, s.eval)
	schedule.SortDeterministic(schedules, true)

	run.Schedules = schedules
	run.Duration = time.Since(began)
	final := metrics.StepStats{RunID: rc.id, Step: rc.step, Time: rc.current, Cropped: cropped, Total: len(schedules), BestValue: bestValue(schedules), Duration: run.Duration}
	writeSummary(s.console, p.Console, p, final, schedules, true)
	s.publishFinal(StepEvent{StepStats: final, BestID: bestID(schedules), Final: true})

	if rec, ok := s.sink.(metrics.RunRecorder); ok {
		values := make([]float64, len(schedules))
		for i, sc := range schedules {
			values[i] = sc.Value
		}
		sum := metrics.Summarize(rc.id, values)
		sum.Scenario = s.name
		sum.BestID = bestID(schedules)
		sum.Steps = rc.step
		sum.Duration = run.Duration
		if err := rec.RecordRun(sum); err != nil {
			s.logger.Warnf("record run %s: %v", rc.id, err)
		}
	}
	s.logger.Infow("run finished", map[string]any{"run_id": rc.id, "schedules": len(schedules), "best": final.BestValue, "duration": run.Duration.String()})
	return run, nil
}

func (s *Scheduler) observe(st metrics.StepStats) {
	stepLatency.Observe(st.Duration.Seconds())
	schedulesCropped.Add(float64(st.Cropped))
	poolSize.Set(float64(st.Total))
	if err := s.sink.RecordStep(st); err != nil {
		s.logger.Warnf("record step %d: %v", st.Step, err)
	}
}

func (s *Scheduler) publish(ev StepEvent) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func (s *Scheduler) publishFinal(ev StepEvent) {
	fp, ok := s.bus.(FinalPublisher)
	if !ok {
		s.publish(ev)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), finalPublishTimeout)
	defer cancel()
	if err := fp.PublishWait(ctx, ev); err != nil {
		s.logger.Warnf("final event: %v", err)
	}
}

func (s *Scheduler) recordHashes(step int, context string, list []*schedule.SystemSchedule) {
	if s.hashes == nil {
		return
	}
	if err := s.hashes.Record(step, context, list); err != nil {
		s.logger.Warnf("hash history: %v", err)
	}
}

func bestValue(list []*schedule.SystemSchedule) float64 {
	if len(list) == 0 {
		return 0
	}
	best := list[0].Value
	for _, s := range list[1:] {
		best = max(best, s.Value)
	}
	return best
}

func bestID(list []*schedule.SystemSchedule) string {
	var best *schedule.SystemSchedule
	for _, s := range list {
		if best == nil || s.Value > best.Value {
			best = s
		}
	}
	if best == nil {
		return ""
	}
	return best.ID
}
