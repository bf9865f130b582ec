package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileValueAt(t *testing.T) {
	p, err := NewProfile(Sample[float64]{0, 75}, Sample[float64]{12.1, 65}, Sample[float64]{24.1, 90})
	require.NoError(t, err)

	v, ok := p.ValueAt(-1)
	assert.False(t, ok)
	assert.Zero(t, v)

	for _, tc := range []struct {
		at   float64
		want float64
	}{{0, 75}, {12, 75}, {12.1, 65}, {20, 65}, {100, 90}} {
		v, ok := p.ValueAt(tc.at)
		assert.True(t, ok)
		assert.Equal(t, tc.want, v, "at %v", tc.at)
	}
}

func TestProfileRejectsPastWrites(t *testing.T) {
	p := &Profile[int]{}
	require.NoError(t, p.Add(1, 1))
	assert.True(t, errors.Is(p.Add(0.5, 2), ErrCausality))
	assert.True(t, errors.Is(p.Add(1, 2), ErrCausality))
	require.NoError(t, p.Add(1.5, 2))
	assert.Equal(t, 2, p.Len())
}

func TestProfileMaxMin(t *testing.T) {
	p, err := NewProfile(Sample[float64]{0, 75}, Sample[float64]{1, 100}, Sample[float64]{2, 40})
	require.NoError(t, err)
	maxV, ok := Max(p)
	require.True(t, ok)
	assert.Equal(t, 100.0, maxV)
	minV, _ := Min(p)
	assert.Equal(t, 40.0, minV)

	_, ok = Max(&Profile[int]{})
	assert.False(t, ok)
}
