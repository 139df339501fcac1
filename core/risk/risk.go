// Package risk estimates the short-term overload risk of training weeks.
// The score is a load indicator, not an injury prediction.
package risk

import (
	"fmt"
	"math"

	"github.com/albanecoiffe/health-data-coach/core/algo"
	"github.com/albanecoiffe/health-data-coach/internal/models"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// Risk level thresholds on the overload probability.
const (
	HighThreshold     = 0.75
	ModerateThreshold = 0.40
)

// Features is the input record of the risk model, in model column order.
type Features struct {
	DistanceKm   float64
	Sessions     float64
	DurationMin  float64
	WeeklyLoad   float64
	HighFraction float64
}

// Vector returns the features in model column order.
func (f Features) Vector() []float64 {
	return []float64{f.DistanceKm, f.Sessions, f.DurationMin, f.WeeklyLoad, f.HighFraction}
}

// FeaturesOf extracts the risk features of a week.
func FeaturesOf(w schema.WeekAggregate) (Features, error) {
	f := Features{
		DistanceKm:   w.DistanceKm,
		Sessions:     float64(w.Sessions),
		DurationMin:  w.DurationMin,
		WeeklyLoad:   w.WeeklyLoad,
		HighFraction: w.HighFraction,
	}
	for _, v := range f.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Features{}, fmt.Errorf("week %d-W%02d: %w", w.Year, w.Week, schema.ErrMissingFeature)
		}
	}
	return f, nil
}

// Scorer predicts overload probabilities. It is immutable and safe for concurrent use.
type Scorer struct {
	model models.RiskModel
}

// NewScorer returns a Scorer backed by the risk model of the bundle.
func NewScorer(bundle *models.Bundle) *Scorer {
	return &Scorer{model: bundle.Risk}
}

// WeekProba returns the overload probability of a single week.
func (s *Scorer) WeekProba(w schema.WeekAggregate) (float64, error) {
	f, err := FeaturesOf(w)
	if err != nil {
		return 0, err
	}
	return s.model.PredictProba(f.Vector())
}

// WeeklyRisk returns the mean probability over the weeks with complete
// features, or 0 when there are none.
func (s *Scorer) WeeklyRisk(weeks []schema.WeekAggregate) float64 {
	probas := make([]float64, 0, len(weeks))
	for _, w := range weeks {
		p, err := s.WeekProba(w)
		if err != nil {
			continue
		}
		probas = append(probas, p)
	}
	return algo.Mean(probas)
}

// LevelFromProba buckets a probability into a risk level.
func LevelFromProba(p float64) schema.RiskLevel {
	switch {
	case p > HighThreshold:
		return schema.HighRisk
	case p > ModerateThreshold:
		return schema.ModerateRisk
	default:
		return schema.LowRisk
	}
}
