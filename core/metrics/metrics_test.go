package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/horizon/core/factory"
)

type recorder struct {
	steps []StepStats
	runs  []RunSummary
	err   error
}

func (r *recorder) RecordStep(s StepStats) error { r.steps = append(r.steps, s); return r.err }
func (r *recorder) RecordRun(s RunSummary) error { r.runs = append(r.runs, s); return r.err }

type stepOnly struct{ n int }

func (s *stepOnly) RecordStep(StepStats) error { s.n++; return nil }

func TestMultiSinkForwards(t *testing.T) {
	a := &recorder{}
	b := &stepOnly{}
	m := NewMultiSink(a, b)
	require.NoError(t, m.RecordStep(StepStats{Step: 1}))
	require.NoError(t, m.RecordRun(RunSummary{RunID: "r"}))
	assert.Len(t, a.steps, 1)
	assert.Len(t, a.runs, 1)
	assert.Equal(t, 1, b.n)

	boom := errors.New("boom")
	m = NewMultiSink(&recorder{err: boom}, b)
	assert.ErrorIs(t, m.RecordStep(StepStats{}), boom)
	assert.Equal(t, 2, b.n, "later sinks still receive the record")
}

type closable struct {
	stepOnly
	closed bool
}

func (c *closable) Close() { c.closed = true }

func TestMultiSinkClose(t *testing.T) {
	c := &closable{}
	NewMultiSink(&recorder{}, c).Close()
	assert.True(t, c.closed)
}

func TestSummarize(t *testing.T) {
	s := Summarize("run", []float64{2, 11, 11, 20})
	assert.Equal(t, 4, s.Schedules)
	assert.Equal(t, 20.0, s.BestValue)
	assert.InDelta(t, 11.0, s.MeanValue, 1e-9)
	assert.InDelta(t, 7.348, s.StdDev, 1e-3)

	one := Summarize("run", []float64{3})
	assert.Equal(t, 3.0, one.MeanValue)
	assert.Zero(t, one.StdDev)
	assert.Zero(t, Summarize("run", nil).BestValue)
}

func TestNewMetricsSink(t *testing.T) {
	s, err := NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	require.NoError(t, RegisterMetricsSink("test_recorder", func(factory.ComponentConfig) (MetricsSink, error) {
		return &recorder{}, nil
	}))
	s, err = NewMetricsSink([]factory.ComponentConfig{{Type: "test_recorder"}})
	require.NoError(t, err)
	assert.IsType(t, &recorder{}, s)

	s, err = NewMetricsSink([]factory.ComponentConfig{{Type: "test_recorder"}, {Type: "test_recorder"}})
	require.NoError(t, err)
	assert.Len(t, s.(*MultiSink).Sinks, 2)

	_, err = NewMetricsSink([]factory.ComponentConfig{{Type: "nope"}})
	assert.ErrorIs(t, err, factory.ErrUnknownType)
	assert.Contains(t, SinkTypes(), "test_recorder")

	_, err = NewMetricsSink([]factory.ComponentConfig{{Type: "test_recorder"}, {Type: "nope"}})
	assert.ErrorIs(t, err, factory.ErrUnknownType)
	assert.ErrorContains(t, err, "sink 1 (nope)")
}
