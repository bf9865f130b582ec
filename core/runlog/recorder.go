package runlog

import (
	"context"
	"time"

	"github.com/kilianp07/horizon/core/metrics"
)

const appendTimeout = 5 * time.Second

// Recorder appends every finished run to a store. It plugs into the
// scheduler as a metrics sink that ignores step statistics.
type Recorder struct {
	store RunStore
}

// NewRecorder wraps store.
func NewRecorder(store RunStore) *Recorder { return &Recorder{store: store} }

// RecordStep implements metrics.MetricsSink.
func (r *Recorder) RecordStep(metrics.StepStats) error { return nil }

// RecordRun implements metrics.RunRecorder.
func (r *Recorder) RecordRun(sum metrics.RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	return r.store.Append(ctx, FromSummary(sum))
}
