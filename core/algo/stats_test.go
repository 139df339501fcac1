package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty slice", values: nil, expected: 0},
		{name: "single value", values: []float64{4}, expected: 4},
		{name: "several values", values: []float64{1, 2, 3, 4}, expected: 2.5},
		{name: "negative values", values: []float64{-2, 2}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Mean(tt.values), 1e-9)
		})
	}
}

func TestStd(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty slice", values: []float64{}, expected: 0},
		{name: "single value", values: []float64{7}, expected: 0},
		{name: "constant values", values: []float64{3, 3, 3}, expected: 0},
		{name: "population deviation", values: []float64{2, 4, 4, 4, 5, 5, 7, 9}, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Std(tt.values), 1e-9)
		})
	}
}

func TestTrendPct(t *testing.T) {
	tests := []struct {
		name     string
		series   []float64
		window   int
		expected float64
	}{
		{name: "not enough values", series: []float64{1, 2, 3}, window: 2, expected: 0},
		{name: "previous mean is zero", series: []float64{0, 0, 5, 5}, window: 2, expected: 0},
		{name: "growth", series: []float64{10, 10, 15, 15}, window: 2, expected: 50},
		{name: "decline", series: []float64{20, 20, 10, 10}, window: 2, expected: -50},
		{name: "only last two windows count", series: []float64{100, 10, 10, 20, 20}, window: 2, expected: 100},
		{name: "zero window", series: []float64{1, 2}, window: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TrendPct(tt.series, tt.window), 1e-9)
		})
	}
}

func TestTrendPctTwelveWeekWindow(t *testing.T) {
	series := make([]float64, 0, 24)
	for range 12 {
		series = append(series, 20)
	}
	for range 12 {
		series = append(series, 30)
	}
	assert.InDelta(t, 50.0, TrendPct(series, 12), 1e-9)
	assert.Equal(t, 0.0, TrendPct(series[1:], 12))
}

func TestACWRSeries(t *testing.T) {
	t.Run("fewer than five weeks", func(t *testing.T) {
		avg, maxRatio := ACWRSeries([]float64{100, 100, 100, 100})
		assert.Equal(t, 0.0, avg)
		assert.Equal(t, 0.0, maxRatio)
	})

	t.Run("steady load", func(t *testing.T) {
		avg, maxRatio := ACWRSeries([]float64{100, 100, 100, 100, 100, 100})
		assert.InDelta(t, 1.0, avg, 1e-9)
		assert.InDelta(t, 1.0, maxRatio, 1e-9)
	})

	t.Run("spike", func(t *testing.T) {
		avg, maxRatio := ACWRSeries([]float64{100, 100, 100, 100, 200})
		assert.InDelta(t, 2.0, avg, 1e-9)
		assert.InDelta(t, 2.0, maxRatio, 1e-9)
	})

	t.Run("zero chronic load", func(t *testing.T) {
		avg, maxRatio := ACWRSeries([]float64{0, 0, 0, 0, 50, 50})
		// ratio at i=4 is 0 (chronic 0), at i=5 chronic is 12.5 => 4
		assert.InDelta(t, 2.0, avg, 1e-9)
		assert.InDelta(t, 4.0, maxRatio, 1e-9)
	})
}

func TestRoundClampFraction(t *testing.T) {
	assert.Equal(t, 0.823, Round(0.82349, 3))
	assert.Equal(t, 12.4, Round(12.36, 1))
	assert.Equal(t, 2.0, Clamp(1, 2, 5))
	assert.Equal(t, 5.0, Clamp(7, 2, 5))
	assert.Equal(t, 0.0, Fraction(3, 0))
	assert.Equal(t, 1.0, Fraction(12, 10))
	assert.InDelta(t, 0.25, Fraction(1, 4), 1e-9)
}

// FuzzStatistics checks that the primitives never produce NaN or Inf on finite input.
func FuzzStatistics(f *testing.F) {
	f.Add(1.0, 2.0, 3.0, 4.0, 5.0, 6.0)
	f.Add(0.0, 0.0, 0.0, 0.0, 0.0, 0.0)
	f.Add(-1.0, 1e6, 0.5, 0.0, 42.0, 3.3)

	f.Fuzz(func(t *testing.T, a, b, c, d, e, g float64) {
		values := []float64{a, b, c, d, e, g}
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e12 {
				t.Skip()
			}
		}
		for _, got := range []float64{Mean(values), Std(values), TrendPct(values, 3)} {
			assert.False(t, math.IsNaN(got))
			assert.False(t, math.IsInf(got, 0))
		}
		if a >= 0 && b >= 0 && c >= 0 && d >= 0 && e >= 0 && g >= 0 {
			avg, maxRatio := ACWRSeries(values)
			assert.GreaterOrEqual(t, maxRatio, avg-1e-9)
		}
	})
}
