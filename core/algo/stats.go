// Package algo has the numeric primitives behind signatures and recommendations.
// None of these functions fail: they degrade to 0 on insufficient data.
package algo

import "math"

// ACWRChronicWeeks is the number of weeks averaged into the chronic load.
const ACWRChronicWeeks = 4

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Std returns the population standard deviation of values, or 0 for an empty slice.
func Std(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// TrendPct compares the mean of the last window values to the mean of the
// window values right before them, as a percentage change.
// It returns 0 with fewer than 2*window values or when the previous mean is 0.
func TrendPct(series []float64, window int) float64 {
	if window <= 0 || len(series) < 2*window {
		return 0
	}
	n := len(series)
	last := Mean(series[n-window:])
	prev := Mean(series[n-2*window : n-window])
	if prev == 0 {
		return 0
	}
	return (last - prev) / prev * 100
}

// ACWRSeries computes the acute:chronic workload ratio for every week that has
// ACWRChronicWeeks weeks before it, and returns the mean and max of the ratios.
// Weeks with a zero chronic load contribute a ratio of 0.
func ACWRSeries(weeklyLoads []float64) (avg, maxRatio float64) {
	if len(weeklyLoads) <= ACWRChronicWeeks {
		return 0, 0
	}
	ratios := make([]float64, 0, len(weeklyLoads)-ACWRChronicWeeks)
	for i := ACWRChronicWeeks; i < len(weeklyLoads); i++ {
		chronic := Mean(weeklyLoads[i-ACWRChronicWeeks : i])
		ratio := 0.0
		if chronic > 0 {
			ratio = weeklyLoads[i] / chronic
		}
		ratios = append(ratios, ratio)
		if ratio > maxRatio {
			maxRatio = ratio
		}
	}
	return Mean(ratios), maxRatio
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Clamp bounds v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Fraction returns part/whole clamped to [0,1], or 0 when whole is not positive.
func Fraction(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return Clamp(part/whole, 0, 1)
}
