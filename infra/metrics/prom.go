package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/horizon/core/metrics"
)

// PromSink exposes run progress as Prometheus metrics.
type PromSink struct {
	schedules *prometheus.GaugeVec
	best      prometheus.Gauge
	steps     prometheus.Counter
	runs      prometheus.Counter
	runTime   prometheus.Histogram
}

// NewPromSink registers the sink collectors on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the collectors on reg, reusing any that
// are already registered. A nil reg means the default registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	schedules := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "horizon_step_schedules",
		Help: "Branch counts of the last scheduling step",
	}, []string{"kind"})
	best := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "horizon_best_value",
		Help: "Best branch value after the last step",
	})
	steps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "horizon_steps_total",
		Help: "Scheduling steps completed",
	})
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "horizon_runs_total",
		Help: "Scheduler runs completed",
	})
	runTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "horizon_run_duration_seconds",
		Help:    "Wall time of a scheduler run",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	var err error
	if schedules, err = register(reg, schedules); err != nil {
		return nil, err
	}
	if best, err = register(reg, best); err != nil {
		return nil, err
	}
	if steps, err = register(reg, steps); err != nil {
		return nil, err
	}
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if runTime, err = register(reg, runTime); err != nil {
		return nil, err
	}
	return &PromSink{schedules: schedules, best: best, steps: steps, runs: runs, runTime: runTime}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordStep implements coremetrics.MetricsSink.
func (s *PromSink) RecordStep(st coremetrics.StepStats) error {
	s.schedules.WithLabelValues("potential").Set(float64(st.Potential))
	s.schedules.WithLabelValues("generated").Set(float64(st.Generated))
	s.schedules.WithLabelValues("carried_over").Set(float64(st.CarriedOver))
	s.schedules.WithLabelValues("cropped").Set(float64(st.Cropped))
	s.schedules.WithLabelValues("total").Set(float64(st.Total))
	s.best.Set(st.BestValue)
	s.steps.Inc()
	return nil
}

// RecordRun implements coremetrics.RunRecorder.
func (s *PromSink) RecordRun(r coremetrics.RunSummary) error {
	s.runs.Inc()
	s.runTime.Observe(r.Duration.Seconds())
	s.best.Set(r.BestValue)
	return nil
}
