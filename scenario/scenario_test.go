package scenario_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/kilianp07/horizon/app/plugins"
	"github.com/kilianp07/horizon/core/evaluator"
	"github.com/kilianp07/horizon/core/factory"
	"github.com/kilianp07/horizon/core/scheduler"
	"github.com/kilianp07/horizon/core/state"
	"github.com/kilianp07/horizon/scenario"
)

func TestLoadToy(t *testing.T) {
	sc, err := scenario.Load(filepath.Join("testdata", "toy.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "toy", sc.Name)
	require.Len(t, sc.Assets, 2)
	assert.Equal(t, "asset2", sc.Assets[1].Name)
	require.Len(t, sc.Tasks, 3)
	assert.Equal(t, "IMAGING", sc.Tasks[1].Type)
	assert.Equal(t, 50.0, sc.Tasks[2].Target.Value)
	assert.Len(t, sc.System.Subsystems(), 6)
	require.NotNil(t, sc.Evaluator)
	assert.Equal(t, "target_value", sc.Evaluator.Type)

	power, err := state.LastValue(sc.Initial, state.NewKey[float64]("asset2", "checker_power"))
	require.NoError(t, err)
	assert.Equal(t, 75.0, power)
	sent, err := state.LastValue(sc.Initial, state.NewKey[int]("asset2", "num_transmissions"))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestToyScenarioFromYAMLMatchesSearch(t *testing.T) {
	sc, err := scenario.Load(filepath.Join("testdata", "toy.yaml"))
	require.NoError(t, err)
	ev, err := evaluator.New(*sc.Evaluator)
	require.NoError(t, err)
	s, err := scheduler.New(scheduler.Params{End: 12, Step: 12, Workers: 2, Console: scheduler.ConsoleOff}, ev)
	require.NoError(t, err)

	run, err := s.Run(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)
	var got []float64
	for _, b := range run.Schedules {
		got = append(got, b.Value)
	}
	assert.Equal(t, []float64{20, 11, 11, 2, 0}, got)
	assert.Equal(t, "0.5", run.Best().ID)
}

func TestConstraintFromYAML(t *testing.T) {
	doc := `
tasks:
  - {name: recharge, type: RECHARGE, target: {value: 1}, max_times: 10}
assets:
  - name: sat
    state:
      - {name: checker_power, value: 75}
    subsystems:
      - type: power
        params: {recharge_value: 25, max_power: 100, transmit_power_required: 20, image_power_required: 10}
constraints:
  - type: single
    params: {variable: sat.checker_power, value: 75, comparison: fail_if_higher}
`
	sc, err := scenario.Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, sc.System.Constraints, 1)
	assert.Equal(t, "sat.checker_power_FAIL_IF_HIGHER", sc.System.Constraints[0].Name())
	_, ok := sc.System.Lookup("sat", "power")
	assert.True(t, ok, "subsystem name defaults to its type")

	ev, err := evaluator.New(factory.ComponentConfig{Type: "target_value"})
	require.NoError(t, err)
	s, err := scheduler.New(scheduler.Params{End: 12, Step: 12, Workers: 1, Console: scheduler.ConsoleOff}, ev)
	require.NoError(t, err)
	got, err := s.GenerateSchedules(sc.System, sc.Tasks, sc.Initial)
	require.NoError(t, err)
	require.Len(t, got, 1, "recharging above the ceiling leaves only the empty schedule")
	assert.True(t, got[0].IsEmpty())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"no assets": {
			doc:  "name: x\n",
			want: "at least one asset",
		},
		"unknown field": {
			doc:  "assets:\n  - name: a\n    colour: red\n",
			want: "colour",
		},
		"unknown subsystem": {
			doc:  "assets:\n  - name: a\n    subsystems:\n      - type: warp_drive\n",
			want: "unknown component type",
		},
		"bad params": {
			doc:  "assets:\n  - name: a\n    subsystems:\n      - type: camera\n        params: {max_imgs: 3}\n",
			want: "max_imgs",
		},
		"unknown dependency": {
			doc:  "assets:\n  - name: a\n    subsystems:\n      - type: always_true\n        depends_on: [power]\n",
			want: "depends on a.power",
		},
		"bad state binding": {
			doc:  "assets:\n  - name: a\n    subsystems:\n      - type: camera\n        params: {max_images: 1}\n        states: [fuel]\n",
			want: "unknown state variable",
		},
		"bad state type": {
			doc:  "assets:\n  - name: a\n    state:\n      - {name: x, type: string, value: hi}\n",
			want: "unknown type",
		},
		"duplicate state": {
			doc:  "state:\n  - {name: sun, value: 1}\n  - {name: SUN, value: 2}\nassets:\n  - name: a\n",
			want: "duplicate state variable",
		},
		"duplicate task": {
			doc:  "tasks:\n  - {name: t, type: X, max_times: 1}\n  - {name: t, type: Y, max_times: 1}\nassets:\n  - name: a\n",
			want: "duplicate task",
		},
		"invalid task": {
			doc:  "tasks:\n  - {name: t, type: X}\nassets:\n  - name: a\n",
			want: "max_times",
		},
		"bad comparison": {
			doc:  "assets:\n  - name: a\nconstraints:\n  - type: single\n    params: {variable: a.x, value: 1, comparison: sometimes}\n",
			want: "unknown constraint type",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestRegisteredTypes(t *testing.T) {
	assert.Equal(t, []string{"always_true", "antenna", "camera", "power", "task_time"}, scenario.SubsystemTypes())
	assert.Equal(t, []string{"single"}, scenario.ConstraintTypes())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := scenario.Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "read scenario")
}
