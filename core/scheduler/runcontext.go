package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/horizon/core/metrics"
)

// runContext carries the counters of one run. Step is 1-based once the loop
// started.
type runContext struct {
	id      string
	step    int
	current float64
	next    float64

	potential   int
	generated   int
	carriedOver int
	cropped     int
	began       time.Time
}

func newRunContext() *runContext {
	return &runContext{id: uuid.NewString()}
}

func (rc *runContext) advance(current, step float64) {
	rc.step++
	rc.current = current
	rc.next = current + step
	rc.potential, rc.generated, rc.carriedOver, rc.cropped = 0, 0, 0, 0
	rc.began = time.Now()
}

func (rc *runContext) stats(total int, best float64) metrics.StepStats {
	return metrics.StepStats{
		RunID:       rc.id,
		Step:        rc.step,
		Time:        rc.current,
		Potential:   rc.potential,
		Generated:   rc.generated,
		CarriedOver: rc.carriedOver,
		Cropped:     rc.cropped,
		Total:       total,
		BestValue:   best,
		Duration:    time.Since(rc.began),
	}
}
