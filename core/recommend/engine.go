// Package recommend builds the session plan of the current ISO week.
package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/albanecoiffe/health-data-coach/core/agg"
	"github.com/albanecoiffe/health-data-coach/core/algo"
	"github.com/albanecoiffe/health-data-coach/core/classify"
	"github.com/albanecoiffe/health-data-coach/core/risk"
	"github.com/albanecoiffe/health-data-coach/internal/models"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// Planning constants.
const (
	MinCompletedWeeks = 3
	RecentWeeks       = 3
	MinTargetSessions = 2
	MaxTargetSessions = 5
)

// NoDominantCluster is reported when no completed week could be classified.
const NoDominantCluster = -1

// Engine computes week recommendations. It is immutable and safe for concurrent use.
type Engine struct {
	classifier *classify.Classifier
	scorer     *risk.Scorer
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the function used to find the ISO week in progress.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine returns an Engine backed by the models of bundle.
func NewEngine(bundle *models.Bundle, opts ...Option) *Engine {
	e := &Engine{
		classifier: classify.New(bundle),
		scorer:     risk.NewScorer(bundle),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute builds the recommendation of the current week from the stored weekly
// aggregates and raw sessions of one user. It fails with
// schema.ErrInsufficientHistory when fewer than 3 completed weeks exist.
func (e *Engine) Compute(weeks []schema.WeekAggregate, sessions []schema.RawSession) (schema.WeekRecommendation, error) {
	now := e.now()
	completed := agg.CompletedWeeks(weeks, now)
	if len(completed) < MinCompletedWeeks {
		return schema.WeekRecommendation{}, fmt.Errorf("%d completed weeks, need %d: %w",
			len(completed), MinCompletedWeeks, schema.ErrInsufficientHistory)
	}
	recent := completed[len(completed)-RecentWeeks:]

	cluster, ok := classify.DominantCluster(e.classifier.ClassifyWeeks(completed))
	if !ok {
		cluster = NoDominantCluster
	}
	template, err := TemplateFor(cluster)
	if err != nil {
		template = fallbackTemplate
	}

	target := targetSessions(recent)
	avgRisk := e.scorer.WeeklyRisk(recent)

	current := agg.CurrentWeekSessions(sessions, now)
	profiles := e.classifier.LabelSessions(current)
	done, details := doneSessions(profiles)
	remainingCount := max(0, target-len(current))

	basePlan := BuildBasePlan(template, target)
	adjusted := AdjustForRisk(basePlan, avgRisk)
	remainingPlan := FitToRemaining(SubtractDone(adjusted, done), remainingCount)
	enriched := Enrich(remainingPlan)

	last := completed[len(completed)-1]
	return schema.WeekRecommendation{
		TargetSessions:          target,
		DominantWeekCluster:     cluster,
		DominantWeekCharacter:   schema.CharacterOf(cluster),
		AvgRiskLast3w:           algo.Round(avgRisk, 3),
		RiskLevel:               risk.LevelFromProba(avgRisk),
		BasePlan:                basePlan,
		AdjustedPlan:            adjusted,
		RemainingPlan:           remainingPlan,
		DoneSessions:            done,
		RemainingSessionsCount:  remainingCount,
		RemainingSessions:       enriched,
		DoneSessionsDetails:     details,
		WeekComplete:            len(enriched) == 0,
		PreviousWeekHadSessions: last.Sessions > 0,
		PreviousWeekSummary: schema.PreviousWeekSummary{
			Sessions:   last.Sessions,
			DistanceKm: algo.Round(last.DistanceKm, 1),
		},
	}, nil
}

// targetSessions is the rounded mean session count of recent, clamped to [2, 5].
func targetSessions(recent []schema.WeekAggregate) int {
	counts := make([]float64, len(recent))
	for i, w := range recent {
		counts[i] = float64(w.Sessions)
	}
	target := int(math.Round(algo.Mean(counts)))
	return min(max(target, MinTargetSessions), MaxTargetSessions)
}

// doneSessions returns the types and details of the labeled sessions.
func doneSessions(profiles []schema.SessionProfile) ([]schema.SessionType, []schema.DoneSessionDetail) {
	done := make([]schema.SessionType, 0, len(profiles))
	details := make([]schema.DoneSessionDetail, 0, len(profiles))
	for _, p := range profiles {
		if !p.Labeled {
			continue
		}
		done = append(done, p.Type)
		details = append(details, schema.DoneSessionDetail{
			Type:             p.Type,
			DurationMin:      algo.Round(p.Session.DurationMin, 1),
			DistanceKm:       algo.Round(p.Session.DistanceKm, 1),
			LowIntensityPct:  algo.Round(agg.SessionLowFraction(p.Session), 2),
			HighIntensityPct: algo.Round(agg.SessionHighFraction(p.Session), 2),
		})
	}
	return done, details
}
