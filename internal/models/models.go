// Package models loads the pretrained week, session and risk models used by the coach.
package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidModel is returned when an artifact is malformed or a feature
// vector does not match the model dimension.
var ErrInvalidModel = errors.New("invalid model")

// StandardScaler centers and scales features with fitted statistics.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform returns the standardized copy of x. A zero scale leaves the
// centered value unscaled.
func (s StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d: %w", len(s.Mean), len(x), ErrInvalidModel)
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// KMeans assigns points to the nearest fitted centroid.
type KMeans struct {
	Centroids [][]float64 `json:"centroids"`
}

// Predict returns the index of the closest centroid by Euclidean distance.
// Ties resolve to the lowest index.
func (k KMeans) Predict(x []float64) (int, error) {
	best, bestDist := -1, math.Inf(1)
	for i, c := range k.Centroids {
		if len(c) != len(x) {
			return 0, fmt.Errorf("centroid %d has %d features, got %d: %w", i, len(c), len(x), ErrInvalidModel)
		}
		d := 0.0
		for j := range c {
			diff := x[j] - c[j]
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("no centroids: %w", ErrInvalidModel)
	}
	return best, nil
}

// LogisticRegression is a fitted binary classifier.
type LogisticRegression struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// PredictProba returns the probability of the positive class.
func (l LogisticRegression) PredictProba(x []float64) (float64, error) {
	if len(x) != len(l.Coef) {
		return 0, fmt.Errorf("classifier expects %d features, got %d: %w", len(l.Coef), len(x), ErrInvalidModel)
	}
	z := l.Intercept
	for i, v := range x {
		z += l.Coef[i] * v
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// ClusterModel is a scaler followed by a KMeans model.
type ClusterModel struct {
	Features []string       `json:"features"`
	Scaler   StandardScaler `json:"scaler"`
	KMeans
}

// Predict scales x and returns its cluster id.
func (m ClusterModel) Predict(x []float64) (int, error) {
	scaled, err := m.Scaler.Transform(x)
	if err != nil {
		return 0, err
	}
	return m.KMeans.Predict(scaled)
}

func (m ClusterModel) validate(name string) error {
	n := len(m.Features)
	if n == 0 || len(m.Scaler.Mean) != n || len(m.Scaler.Scale) != n {
		return fmt.Errorf("%s: scaler does not match %d features: %w", name, n, ErrInvalidModel)
	}
	if len(m.Centroids) == 0 {
		return fmt.Errorf("%s: no centroids: %w", name, ErrInvalidModel)
	}
	for i, c := range m.Centroids {
		if len(c) != n {
			return fmt.Errorf("%s: centroid %d has %d features: %w", name, i, len(c), ErrInvalidModel)
		}
	}
	return nil
}

// RiskModel is a scaler followed by a logistic regression.
type RiskModel struct {
	Features []string       `json:"features"`
	Scaler   StandardScaler `json:"scaler"`
	LogisticRegression
}

// PredictProba scales x and returns the overload probability.
func (m RiskModel) PredictProba(x []float64) (float64, error) {
	scaled, err := m.Scaler.Transform(x)
	if err != nil {
		return 0, err
	}
	return m.LogisticRegression.PredictProba(scaled)
}

func (m RiskModel) validate(name string) error {
	n := len(m.Features)
	if n == 0 || len(m.Scaler.Mean) != n || len(m.Scaler.Scale) != n || len(m.Coef) != n {
		return fmt.Errorf("%s: parameters do not match %d features: %w", name, n, ErrInvalidModel)
	}
	return nil
}
