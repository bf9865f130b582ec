package scheduler

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/horizon/core/evaluator"
	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/internal/eventbus"
	"github.com/kilianp07/horizon/internal/toy"
)

func targetValue(t *testing.T) schedule.Evaluator {
	t.Helper()
	ev, err := evaluator.NewTargetValue("")
	require.NoError(t, err)
	return ev
}

func oneStep() Params {
	return Params{Start: 0, End: 12, Step: 12, MaxSchedules: 10, CropTo: 5, Workers: 4, Console: ConsoleOff}
}

func values(list []*schedule.SystemSchedule) []float64 {
	out := make([]float64, len(list))
	for i, s := range list {
		out[i] = s.Value
	}
	return out
}

func TestToyScenarioSingleStep(t *testing.T) {
	sc, err := toy.New(toy.Options{})
	require.NoError(t, err)
	s, err := New(oneStep(), targetValue(t))
	require.NoError(t, err)

	run, err := s.Run(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)

	require.Len(t, run.Steps, 1)
	st := run.Steps[0]
	assert.Equal(t, 9, st.Potential)
	assert.Equal(t, 4, st.Generated)
	assert.Equal(t, 1, st.CarriedOver)
	assert.Equal(t, 0, st.Cropped)
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, run.ID, st.RunID)

	assert.Equal(t, []float64{20, 11, 11, 2, 0}, values(run.Schedules))
	assert.Equal(t, "0.5", run.Best().ID, "IMAGING+IMAGING is the fifth accepted combination")
	last := run.Schedules[len(run.Schedules)-1]
	assert.True(t, last.IsEmpty())
	assert.Equal(t, "0.0", last.ID)
}

func TestToyScenarioPowerCeilingExcludesRecharge(t *testing.T) {
	sc, err := toy.New(toy.Options{PowerCeiling: toy.InitialPower})
	require.NoError(t, err)
	s, err := New(oneStep(), targetValue(t))
	require.NoError(t, err)

	got, err := s.GenerateSchedules(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 20.0, got[0].Value)
	for _, a := range got[0].History.LastEvent().Assignments() {
		assert.Equal(t, "IMAGING", a.Task.Type)
	}
	assert.True(t, got[1].IsEmpty())
}

func TestRepeatLimitCountsAcrossAssets(t *testing.T) {
	sc, err := toy.New(toy.Options{MaxTimes: 1})
	require.NoError(t, err)
	s, err := New(oneStep(), targetValue(t))
	require.NoError(t, err)

	run, err := s.Run(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)
	assert.Equal(t, 6, run.Steps[0].Potential, "same task on both assets exceeds the limit")
	assert.Equal(t, 2, run.Steps[0].Generated, "RECHARGE+IMAGING and IMAGING+RECHARGE")
}

type snapshot struct {
	id, hash, stateHash string
	value               float64
}

func runToy(t *testing.T, p Params, dynamic bool) []snapshot {
	t.Helper()
	sc, err := toy.New(toy.Options{})
	require.NoError(t, err)
	for _, a := range sc.Assets {
		a.Dynamic = dynamic
	}
	s, err := New(p, targetValue(t))
	require.NoError(t, err)
	got, err := s.GenerateSchedules(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)
	out := make([]snapshot, len(got))
	for i, g := range got {
		out[i] = snapshot{id: g.ID, hash: g.Hash(), stateHash: g.StateHash, value: g.Value}
	}
	return out
}

func TestMultiStepRunIsDeterministic(t *testing.T) {
	p := Params{Start: 0, End: 48, Step: 12, MaxSchedules: 10, CropTo: 5, Workers: 8, Console: ConsoleOff, HashTracking: true}
	first := runToy(t, p, false)
	require.NotEmpty(t, first)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, runToy(t, p, false))
	}
	p.Workers = 1
	assert.Equal(t, first, runToy(t, p, true), "worker count and access pregeneration do not change the outcome")

	assert.LessOrEqual(t, len(first), 10)
	baseline := 0
	for i, s := range first {
		assert.Len(t, s.id, len("0.0.0.0.0"), s.id)
		if i > 0 {
			assert.GreaterOrEqual(t, first[i-1].value, s.value)
		}
		if s.id == "0.0.0.0.0" {
			baseline++
		}
	}
	assert.Equal(t, 1, baseline)
}

type hashLog struct {
	mu       sync.Mutex
	contexts []string
	steps    []int
	tips     []string
}

func (h *hashLog) Record(step int, context string, list []*schedule.SystemSchedule) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.contexts = append(h.contexts, context)
	h.steps = append(h.steps, step)
	for _, s := range list {
		h.tips = append(h.tips, s.StateHash)
	}
	return nil
}

func TestHashTrackingRecordsCheckAndEval(t *testing.T) {
	sc, err := toy.New(toy.Options{})
	require.NoError(t, err)
	p := oneStep()
	p.End = 24
	p.HashTracking = true
	rec := &hashLog{}
	s, err := New(p, targetValue(t), WithHashRecorder(rec))
	require.NoError(t, err)
	_, err = s.Run(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)

	assert.Equal(t, []string{HashContextCheck, HashContextEval, HashContextCheck, HashContextEval}, rec.contexts)
	assert.Equal(t, []int{1, 1, 2, 2}, rec.steps)
	for _, tip := range rec.tips {
		assert.Len(t, tip, schedule.StateHashLength)
	}

	off := &hashLog{}
	p.HashTracking = false
	s, err = New(p, targetValue(t), WithHashRecorder(off))
	require.NoError(t, err)
	_, err = s.Run(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)
	assert.Empty(t, off.contexts)
}

type eventLog struct{ events []StepEvent }

func (e *eventLog) Publish(ev StepEvent) { e.events = append(e.events, ev) }

func TestConsoleAndEvents(t *testing.T) {
	sc, err := toy.New(toy.Options{})
	require.NoError(t, err)
	p := oneStep()
	p.Console = ConsoleAll
	var out bytes.Buffer
	events := &eventLog{}
	s, err := New(p, targetValue(t), WithConsole(&out), WithEventBus(events), WithTracker(sc.Tracker))
	require.NoError(t, err)
	_, err = s.Run(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Generated: 4 | Carried Over: 1 | Cropped: 0 | Total: 5")
	assert.Contains(t, text, "Schedule 0.5: Events= 1 | Value=   20.00 | Pattern: [1]")
	assert.Contains(t, text, "Schedule 0.0: Events= 0 | Value=    0.00 | Pattern: [0]")
	assert.Contains(t, text, "FINAL SCHEDULES")

	require.Len(t, events.events, 2)
	assert.Equal(t, "0.5", events.events[0].BestID)
	assert.False(t, events.events[0].Final)
	assert.True(t, events.events[1].Final)
	assert.Positive(t, sc.Tracker.Len())
}

func TestFinalEventSurvivesFullBus(t *testing.T) {
	sc, err := toy.New(toy.Options{})
	require.NoError(t, err)
	p := oneStep()
	p.End = 36
	bus := eventbus.New[StepEvent](eventbus.WithBuffer(1))
	ch := bus.Subscribe()
	s, err := New(p, targetValue(t), WithEventBus(bus))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(sc.System, sc.Tasks, sc.Initial)
		done <- err
	}()

	// steps 2 and 3 find the buffer full; the final event must wait for room.
	require.Eventually(t, func() bool { return bus.Dropped() == 2 }, 5*time.Second, time.Millisecond)
	first := <-ch
	assert.Equal(t, 1, first.Step)
	assert.False(t, first.Final)
	last := <-ch
	assert.True(t, last.Final)
	require.NoError(t, <-done)
	assert.Equal(t, uint64(2), bus.Dropped())
}

func TestFatalSubsystemErrorAbortsRun(t *testing.T) {
	sc, err := toy.New(toy.Options{})
	require.NoError(t, err)
	s, err := New(oneStep(), targetValue(t))
	require.NoError(t, err)
	_, err = s.Run(sc.System, sc.Tasks, state.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, state.ErrUnknownKey))
}

func TestNewRejectsBadParams(t *testing.T) {
	_, err := New(Params{Start: 5, End: 1}, targetValue(t))
	assert.Error(t, err)
	_, err = New(Params{}, nil)
	assert.Error(t, err)
}

func TestMetricsRegistration(t *testing.T) {
	ResetMetrics(nil)
	t.Cleanup(func() { ResetMetrics(nil) })
	reg := prometheus.NewRegistry()
	MustRegisterMetrics(reg)
	stepLatency.Observe(0.1)
	candidatesChecked.WithLabelValues("pass").Inc()
	schedulesCropped.Inc()
	poolSize.Set(3)
	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, n := range []string{
		"scheduler_step_duration_seconds",
		"scheduler_candidates_checked_total",
		"scheduler_schedules_cropped_total",
		"scheduler_pool_size",
	} {
		assert.True(t, names[n], n)
	}
}
