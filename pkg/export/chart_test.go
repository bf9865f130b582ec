package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/horizon/core/metrics"
)

func TestWriteSearchChart(t *testing.T) {
	steps := []metrics.StepStats{
		{Step: 0, Time: 0, Total: 5, BestValue: 20},
		{Step: 1, Time: 12.5, Total: 9, BestValue: 31},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSearchChart(&buf, "run-1", steps))
	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Schedule search")
	assert.Contains(t, html, "run-1")
	assert.Contains(t, html, "Best value")
	assert.Contains(t, html, "12.5")
}
