package subsystems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/horizon/core/model"
	"github.com/kilianp07/horizon/core/schedule"
	"github.com/kilianp07/horizon/core/state"
)

var sat = &model.Asset{Name: "Sat"}

func eventFor(t *testing.T, initial *state.SystemState, typ string) *schedule.Event {
	t.Helper()
	acc := model.NoTask(sat, 0)
	if typ != "" {
		acc = model.Access{Asset: sat, Task: &model.Task{Name: typ, Type: typ, MaxTimesToPerform: 5}, Start: 0, End: 60}
	}
	s, err := schedule.Fork(schedule.NewEmpty(initial), []model.Access{acc}, 0, 12, "0.1")
	require.NoError(t, err)
	return s.History.LastEvent()
}

func newPower(t *testing.T, level float64) (*Power, *state.SystemState) {
	t.Helper()
	p, err := NewPower("power", sat, PowerParams{RechargeValue: 25, MaxPower: 100, TransmitPowerRequired: 20, ImagePowerRequired: 10})
	require.NoError(t, err)
	s := state.New()
	require.NoError(t, state.Init(s, p.Key(), 0, level))
	return p, s
}

func TestPowerBudget(t *testing.T) {
	cases := []struct {
		typ   string
		level float64
		ok    bool
		after float64
	}{
		{TaskRecharge, 75, true, 100},
		{TaskRecharge, 80, false, 80},
		{TaskImaging, 75, true, 65},
		{TaskImaging, 5, false, 5},
		{TaskTransmit, 20, true, 0},
		{TaskTransmit, 19, false, 19},
		{"", 50, true, 50},
		{"DANCE", 50, false, 50},
	}
	for _, tc := range cases {
		p, initial := newPower(t, tc.level)
		ev := eventFor(t, initial, tc.typ)
		ok, err := p.CanPerform(ev, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.ok, ok, "%s at %.0f", tc.typ, tc.level)
		last, err := state.Last(ev.State, p.Key())
		require.NoError(t, err)
		assert.Equal(t, tc.after, last.Value)
		if tc.ok && tc.typ != "" {
			assert.InDelta(t, WriteOffset, last.Time, 1e-9)
		}
	}
}

func TestPowerParamsValidate(t *testing.T) {
	_, err := NewPower("power", sat, PowerParams{MaxPower: 10, MinPower: 10})
	assert.Error(t, err)
	_, err = NewPower("power", sat, PowerParams{MaxPower: 10, RechargeValue: -1})
	assert.Error(t, err)
}

func TestCameraAndAntenna(t *testing.T) {
	cam, err := NewCamera("camera", sat, CameraParams{MaxImages: 1})
	require.NoError(t, err)
	ant := NewAntenna("antenna", sat, "camera")
	images := state.NewKey[int]("sat", "num_images_stored")
	sent := state.NewKey[int]("sat", "num_transmissions")

	initial := state.New()
	require.NoError(t, state.Init(initial, images, 0, 0))
	require.NoError(t, state.Init(initial, sent, 0, 0))

	ev := eventFor(t, initial, TaskTransmit)
	ok, err := ant.CanPerform(ev, nil)
	require.NoError(t, err)
	assert.False(t, ok, "nothing to downlink")

	ev = eventFor(t, initial, TaskImaging)
	ok, err = cam.CanPerform(ev, nil)
	require.NoError(t, err)
	require.True(t, ok)
	n, err := state.LastValue(ev.State, images)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	full := state.New()
	require.NoError(t, state.Init(full, images, 0, 1))
	require.NoError(t, state.Init(full, sent, 0, 3))
	ev = eventFor(t, full, TaskImaging)
	ok, err = cam.CanPerform(ev, nil)
	require.NoError(t, err)
	assert.False(t, ok, "store is full")

	ev = eventFor(t, full, TaskTransmit)
	ok, err = ant.CanPerform(ev, nil)
	require.NoError(t, err)
	require.True(t, ok)
	n, _ = state.LastValue(ev.State, images)
	m, _ := state.LastValue(ev.State, sent)
	assert.Equal(t, 0, n)
	assert.Equal(t, 4, m)

	_, err = NewCamera("camera", sat, CameraParams{})
	assert.Error(t, err)
}

func TestSetStateVariableKey(t *testing.T) {
	p, _ := newPower(t, 0)
	assert.NoError(t, p.SetStateVariableKey("SAT.checker_power"))
	assert.Error(t, p.SetStateVariableKey("sat.voltage"))

	ant := NewAntenna("antenna", sat)
	assert.NoError(t, ant.SetStateVariableKey("sat.num_transmissions"))
	assert.Error(t, ant.SetStateVariableKey("other.num_transmissions"))

	assert.Error(t, NewAlwaysTrue("x", sat).SetStateVariableKey("sat.x"))
}

func TestTaskTimeShiftsInsideEvent(t *testing.T) {
	ev := eventFor(t, state.New(), TaskImaging)
	ok, err := NewTaskTime("slew", sat, TaskTimeParams{StartShift: 2, EndShift: -2}).CanPerform(ev, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, ev.TaskStart(sat))
	assert.Equal(t, 10.0, ev.TaskEnd(sat))

	ev = eventFor(t, state.New(), TaskImaging)
	ok, err = NewTaskTime("late", sat, TaskTimeParams{StartShift: 1, EndShift: 1}).CanPerform(ev, nil)
	require.NoError(t, err)
	assert.False(t, ok, "end would leave the event")

	ev = eventFor(t, state.New(), "")
	ok, err = NewTaskTime("idle", sat, TaskTimeParams{StartShift: 5}).CanPerform(ev, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
