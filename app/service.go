// Package app wires configuration, scenario and adapters around the
// scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	runsapi "github.com/kilianp07/horizon/api/runs"
	"github.com/kilianp07/horizon/config"
	"github.com/kilianp07/horizon/core/audit"
	"github.com/kilianp07/horizon/core/evaluator"
	coremetrics "github.com/kilianp07/horizon/core/metrics"
	"github.com/kilianp07/horizon/core/monitoring"
	"github.com/kilianp07/horizon/core/runlog"
	"github.com/kilianp07/horizon/core/scheduler"
	"github.com/kilianp07/horizon/infra/logger"
	"github.com/kilianp07/horizon/infra/metrics"
	inframon "github.com/kilianp07/horizon/infra/monitoring"
	"github.com/kilianp07/horizon/infra/mqtt"
	"github.com/kilianp07/horizon/internal/eventbus"
	"github.com/kilianp07/horizon/pkg/export"
	"github.com/kilianp07/horizon/scenario"
)

// Export file names under the output directory.
const (
	SchedulesFile = "schedules.json"
	StateDataFile = "state_data.csv"
	ChartFile     = "search_chart.html"
)

const monitorFlushTimeout = 2 * time.Second

// Result is a finished run plus the files it produced.
type Result struct {
	Run       *scheduler.Run
	Artifacts []string
}

// Service runs scenarios with the configured adapters.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	sink      coremetrics.MetricsSink
	store     runlog.RunStore
	publisher *mqtt.PlanPublisher
	monitor   monitoring.Monitor
	console   io.Writer
	closers   []func() error
}

// Option customizes a Service.
type Option func(*Service)

// WithConsole redirects the step summaries, stdout by default.
func WithConsole(w io.Writer) Option { return func(s *Service) { s.console = w } }

// WithMonitor replaces the monitor built from the configuration.
func WithMonitor(m monitoring.Monitor) Option { return func(s *Service) { s.monitor = m } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	s := &Service{cfg: cfg, log: logger.New("service"), console: os.Stdout}
	for _, o := range opts {
		o(s)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	if c, ok := sink.(interface{ Close() }); ok {
		s.closers = append(s.closers, func() error { c.Close(); return nil })
	}
	if cfg.Logging.RunStore.Enabled() {
		store, err := runlog.Open(cfg.Logging.RunStore)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("run store: %w", err)
		}
		s.store = store
		s.closers = append(s.closers, store.Close)
		sink = coremetrics.NewMultiSink(sink, runlog.NewRecorder(store))
	}
	s.sink = sink

	if s.monitor == nil {
		mon, err := inframon.NewSentryMonitor(cfg.Monitoring)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.monitor = mon
	}
	s.closers = append(s.closers, func() error {
		if !s.monitor.Flush(monitorFlushTimeout) {
			return errors.New("monitor flush timed out")
		}
		return nil
	})

	if cfg.Publish.Enabled() {
		pub, err := mqtt.NewPlanPublisher(cfg.Publish, logger.New("mqtt"))
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("plan publisher: %w", err)
		}
		s.publisher = pub
		s.closers = append(s.closers, pub.Close)
	}
	return s, nil
}

// Run searches sc and writes the configured artifacts. The Prometheus
// endpoint, when configured, stays up until ctx is canceled. Failures and
// panics are reported to the monitor.
func (s *Service) Run(ctx context.Context, sc *scenario.Scenario) (*Result, error) {
	defer s.monitor.RecoverPanic()
	res, err := s.run(ctx, sc)
	if err != nil {
		tags := monitoring.Tags{"scenario": s.scenarioName(sc)}
		if res != nil && res.Run != nil {
			tags["run_id"] = res.Run.ID
		}
		s.monitor.CaptureError(err, tags)
	}
	return res, err
}

func (s *Service) scenarioName(sc *scenario.Scenario) string {
	if s.cfg.Simulation.ScenarioName != "" {
		return s.cfg.Simulation.ScenarioName
	}
	return sc.Name
}

func (s *Service) run(ctx context.Context, sc *scenario.Scenario) (*Result, error) {
	params, err := s.cfg.SchedulerParams()
	if err != nil {
		return nil, err
	}
	evalCfg := s.cfg.Scheduler.Evaluator
	if sc.Evaluator != nil {
		evalCfg = *sc.Evaluator
	}
	eval, err := evaluator.New(evalCfg)
	if err != nil {
		return nil, fmt.Errorf("evaluator: %w", err)
	}
	name := s.scenarioName(sc)

	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+port, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	outDir := s.cfg.Output.Dir
	hashDir := filepath.Join(outDir, audit.HashDataDir)
	if err := os.MkdirAll(hashDir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	bus := eventbus.New[scheduler.StepEvent](eventbus.WithBuffer(64))
	opts := []scheduler.Option{
		scheduler.WithLogger(logger.New("scheduler")),
		scheduler.WithMetrics(s.sink),
		scheduler.WithEventBus(bus),
		scheduler.WithConsole(s.console),
		scheduler.WithScenario(name),
	}
	res := &Result{}
	if params.HashTracking {
		hist, err := audit.NewHashHistory(outDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, scheduler.WithHashRecorder(hist))
		res.Artifacts = append(res.Artifacts, hist.Path())
	}
	sched, err := scheduler.New(params, eval, opts...)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(events <-chan scheduler.StepEvent) {
		defer wg.Done()
		s.follow(events)
	}(bus.Subscribe())
	run, err := sched.Run(sc.System, sc.Tasks, sc.Initial)
	bus.Close()
	wg.Wait()
	if dropped := bus.Dropped(); dropped > 0 {
		s.log.Warnf("%d progress events dropped", dropped)
	}
	if err != nil {
		return nil, err
	}
	res.Run = run

	paths, err := s.writeArtifacts(outDir, hashDir, run)
	res.Artifacts = append(res.Artifacts, paths...)
	if err != nil {
		return res, err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishPlan(run.ID, name, run.Schedules); err != nil {
			return res, err
		}
	}
	return res, nil
}

// follow logs progress events and forwards them to the broker.
func (s *Service) follow(events <-chan scheduler.StepEvent) {
	for ev := range events {
		s.log.Debugw("step", map[string]any{"run_id": ev.RunID, "step": ev.Step, "total": ev.Total, "best": ev.BestValue, "final": ev.Final})
		if s.publisher != nil && s.cfg.Publish.Progress {
			if err := s.publisher.PublishProgress(ev); err != nil {
				s.log.Warnf("publish progress: %v", err)
			}
		}
	}
}

func (s *Service) writeArtifacts(outDir, hashDir string, run *scheduler.Run) ([]string, error) {
	var paths []string
	p, err := audit.WriteScheduleHashes(hashDir, run.Schedules)
	if err != nil {
		return paths, err
	}
	paths = append(paths, p)
	if p, err = audit.WriteBlockchainSummary(hashDir, run.Schedules); err != nil {
		return paths, err
	}
	paths = append(paths, p)

	if s.cfg.Output.JSON {
		p := filepath.Join(outDir, SchedulesFile)
		if err := writeFile(p, func(w io.Writer) error { return export.WriteJSON(w, run.Schedules) }); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	if s.cfg.Output.CSV {
		p := filepath.Join(outDir, StateDataFile)
		if err := writeFile(p, func(w io.Writer) error { return export.WriteCSV(w, run.Schedules) }); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	if s.cfg.Output.Chart {
		p := filepath.Join(outDir, ChartFile)
		if err := writeFile(p, func(w io.Writer) error { return export.WriteSearchChart(w, run.ID, run.Steps) }); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// Handler serves /metrics and, with a run store, the run listing.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.PromHandler(nil))
	if s.store != nil {
		mux.Handle(runsapi.Path, runsapi.NewHandler(s.store, s.cfg.API.Token))
	}
	return mux
}

// Serve exposes Handler on the configured address until ctx is canceled.
func (s *Service) Serve(ctx context.Context) error {
	s.log.Infof("listening on %s", s.cfg.API.Addr)
	return metrics.Serve(ctx, s.cfg.API.Addr, s.Handler(), s.log)
}

// Runs queries the run store.
func (s *Service) Runs(ctx context.Context, q runlog.RunQuery) ([]runlog.RunRecord, error) {
	if s.store == nil {
		return nil, errors.New("no run store configured")
	}
	return s.store.Query(ctx, q)
}

// Close releases the adapters in reverse order of creation.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
