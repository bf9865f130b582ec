package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	stepLatency       prometheus.Histogram
	candidatesChecked *prometheus.CounterVec
	schedulesCropped  prometheus.Counter
	poolSize          prometheus.Gauge
)

func newCollectors() (prometheus.Histogram, *prometheus.CounterVec, prometheus.Counter, prometheus.Gauge) {
	lat := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_step_duration_seconds",
		Help:    "Wall time of one scheduling step",
		Buckets: prometheus.DefBuckets,
	})
	checked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_candidates_checked_total",
		Help: "Candidate branches run through the checker",
	}, []string{"result"})
	cropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_schedules_cropped_total",
		Help: "Branches dropped by cropping",
	})
	pool := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scheduler_pool_size",
		Help: "Branches kept after the last step",
	})
	return lat, checked, cropped, pool
}

func init() {
	stepLatency, candidatesChecked, schedulesCropped, poolSize = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers the scheduler collectors on reg, or on the
// default registerer when reg is nil.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(stepLatency, candidatesChecked, schedulesCropped, poolSize)
}

// ResetMetrics recreates the collectors, registering them on reg if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	stepLatency, candidatesChecked, schedulesCropped, poolSize = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
