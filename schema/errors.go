package schema

import "errors"

// ErrInsufficientHistory is returned when there is not enough training history
// to build a signature or a recommendation.
var ErrInsufficientHistory = errors.New("insufficient history")

// ErrMissingFeature marks a row that lacks a feature required by a model.
// It never reaches callers of the public entry points.
var ErrMissingFeature = errors.New("missing feature")

// ErrUnknownClusterTemplate marks a week cluster without a plan template.
// The recommendation engine falls back to a default template instead.
var ErrUnknownClusterTemplate = errors.New("unknown cluster template")
