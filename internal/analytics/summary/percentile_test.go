package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePercentiles_LinearInterpolation(t *testing.T) {
	p, err := CalculatePercentiles(outlierExample)
	require.NoError(t, err)

	assert.InDelta(t, 13.5, p.P25, 1e-12)
	assert.InDelta(t, 16.5, p.P50, 1e-12)
	assert.InDelta(t, 19.25, p.P75, 1e-12)
	assert.InDelta(t, 5.75, p.IQR(), 1e-12)
}

func TestCalculatePercentiles_Unsorted(t *testing.T) {
	p, err := CalculatePercentiles(Sample{4, 1, 3, 2})
	require.NoError(t, err)

	assert.InDelta(t, 1.75, p.P25, 1e-12)
	assert.InDelta(t, 2.5, p.P50, 1e-12)
	assert.InDelta(t, 3.25, p.P75, 1e-12)
}

func TestCalculatePercentiles_SingleValue(t *testing.T) {
	p, err := CalculatePercentiles(Sample{42})
	require.NoError(t, err)
	assert.Equal(t, Percentiles{P25: 42, P50: 42, P75: 42}, p)
}

func TestCalculatePercentiles_Ordered(t *testing.T) {
	samples := []Sample{
		generateHeights(1000, 170, 10, 1),
		generateHeights(7, 0, 1e-9, 2),
		{0.1, 0.1, 0.1, 0.1, 0.1},
		{-5, 5},
		{1e308, -1e308, 0},
	}

	for _, s := range samples {
		p, err := CalculatePercentiles(s)
		require.NoError(t, err)
		assert.LessOrEqual(t, p.P25, p.P50)
		assert.LessOrEqual(t, p.P50, p.P75)
	}
}

func TestPercentile(t *testing.T) {
	s := Sample{10, 20, 30, 40, 50}

	tests := []struct {
		p        float64
		expected float64
	}{
		{0, 10},
		{10, 14},
		{50, 30},
		{90, 46},
		{100, 50},
	}

	for _, tt := range tests {
		got, err := Percentile(s, tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.expected, got, 1e-12, "p=%v", tt.p)
	}

	_, err := Percentile(s, 101)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Percentile(s, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
