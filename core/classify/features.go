package classify

import (
	"fmt"
	"math"

	"github.com/albanecoiffe/health-data-coach/core/agg"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// WeekFeatures is the input record of the week model, in model column order.
type WeekFeatures struct {
	DistanceKm   float64
	Sessions     float64
	DurationMin  float64
	WeeklyLoad   float64
	LowFraction  float64
	HighFraction float64
}

// Vector returns the features in model column order.
func (f WeekFeatures) Vector() []float64 {
	return []float64{f.DistanceKm, f.Sessions, f.DurationMin, f.WeeklyLoad, f.LowFraction, f.HighFraction}
}

// WeekFeaturesOf extracts the week model features. Weeks without sessions or
// with non-finite values are incomplete.
func WeekFeaturesOf(w schema.WeekAggregate) (WeekFeatures, error) {
	f := WeekFeatures{
		DistanceKm:   w.DistanceKm,
		Sessions:     float64(w.Sessions),
		DurationMin:  w.DurationMin,
		WeeklyLoad:   w.WeeklyLoad,
		LowFraction:  w.LowFraction,
		HighFraction: w.HighFraction,
	}
	if w.Sessions == 0 || !allFinite(f.Vector()) {
		return WeekFeatures{}, fmt.Errorf("week %d-W%02d: %w", w.Year, w.Week, schema.ErrMissingFeature)
	}
	return f, nil
}

// SessionFeatures is the input record of the session model, in model column order.
type SessionFeatures struct {
	DistanceKm   float64
	DurationMin  float64
	PaceMinPerKm float64
	LowFraction  float64
	HighFraction float64
}

// Vector returns the features in model column order.
func (f SessionFeatures) Vector() []float64 {
	return []float64{f.DistanceKm, f.DurationMin, f.PaceMinPerKm, f.LowFraction, f.HighFraction}
}

// SessionFeaturesOf extracts the session model features. Pace only exists
// when both distance and duration are positive, so sessions missing either
// are incomplete.
func SessionFeaturesOf(s schema.RawSession) (SessionFeatures, error) {
	if s.DistanceKm <= 0 || s.DurationMin <= 0 {
		return SessionFeatures{}, fmt.Errorf("session %s: %w", s.StartTime.Format("2006-01-02T15:04"), schema.ErrMissingFeature)
	}
	f := SessionFeatures{
		DistanceKm:   s.DistanceKm,
		DurationMin:  s.DurationMin,
		PaceMinPerKm: s.DurationMin / s.DistanceKm,
		LowFraction:  agg.SessionLowFraction(s),
		HighFraction: agg.SessionHighFraction(s),
	}
	if !allFinite(f.Vector()) {
		return SessionFeatures{}, fmt.Errorf("session %s: %w", s.StartTime.Format("2006-01-02T15:04"), schema.ErrMissingFeature)
	}
	return f, nil
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
