package metrics

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// StepStats describes one iteration of the scheduling loop.
type StepStats struct {
	RunID string
	Step  int
	// Time is the simulation time the step started at.
	Time float64
	// Potential counts the candidates produced by time deconfliction.
	Potential   int
	Generated   int
	CarriedOver int
	Cropped     int
	Total       int
	BestValue   float64
	Duration    time.Duration
}

// RunSummary describes a finished run.
type RunSummary struct {
	RunID     string
	Scenario  string
	Steps     int
	Schedules int
	BestID    string
	BestValue float64
	MeanValue float64
	StdDev    float64
	Duration  time.Duration
	Finished  time.Time
}

// MetricsSink records per-step statistics.
type MetricsSink interface {
	RecordStep(s StepStats) error
}

// RunRecorder is implemented by sinks that also keep run summaries.
type RunRecorder interface {
	RecordRun(r RunSummary) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordStep(StepStats) error  { return nil }
func (NopSink) RecordRun(RunSummary) error { return nil }

// Summarize fills the value statistics of a run from the final schedule
// values. An empty slice leaves them at zero.
func Summarize(runID string, values []float64) RunSummary {
	sum := RunSummary{RunID: runID, Schedules: len(values), Finished: time.Now()}
	if len(values) == 0 {
		return sum
	}
	sum.BestValue = values[0]
	for _, v := range values[1:] {
		sum.BestValue = max(sum.BestValue, v)
	}
	if len(values) == 1 {
		sum.MeanValue = values[0]
		return sum
	}
	sum.MeanValue, sum.StdDev = stat.MeanStdDev(values, nil)
	return sum
}
