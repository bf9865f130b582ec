package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerWritesComponent(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	l := New("scheduler")
	l.Infow("step done", map[string]any{"step": 3})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "step done", entry["message"])
	assert.EqualValues(t, 3, entry["step"])
}

func TestSetLevelFiltersDebug(t *testing.T) {
	t.Setenv("APP_ENV", "")
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("warn")
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel("info")
	})

	l := New("test")
	l.Debugf("hidden %d", 1)
	l.Infof("hidden too")
	assert.Zero(t, buf.Len())
	l.Warnf("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("x")
	l.Debugw("x", nil)
	l.Infof("x")
	l.Infow("x", nil)
	l.Warnf("x")
	l.Errorf("x")
}
