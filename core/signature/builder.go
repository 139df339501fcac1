// Package signature builds the long-term runner signature.
package signature

import (
	"fmt"
	"time"

	"github.com/albanecoiffe/health-data-coach/core/agg"
	"github.com/albanecoiffe/health-data-coach/core/algo"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// Window settings of the signature.
const (
	WindowWeeks = 52
	TrendWindow = 12
)

const dateLayout = "2006-01-02"

// Builder computes RunnerSignature values from raw sessions.
// It holds no state besides its clock, so it is safe for concurrent use.
type Builder struct {
	now func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the function used to decide which ISO week is in progress.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder returns a Builder using the wall clock unless overridden.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// completedHistory is the in-memory fold of the signature window.
type completedHistory struct {
	keys     []schema.WeekKey
	weeks    []schema.WeekAggregate
	sessions []schema.RawSession
	// weeklyHighs is the mean zone 4-5 fraction of the sessions of each week.
	weeklyHighs []float64
}

// Build computes the signature over the trailing 52 weeks ending at the most
// recent session. The ISO week in progress is left out of every statistic.
func (b *Builder) Build(sessions []schema.RawSession) (schema.RunnerSignature, error) {
	if len(sessions) == 0 {
		return schema.RunnerSignature{}, fmt.Errorf("no sessions in the last %d weeks: %w", WindowWeeks, schema.ErrInsufficientHistory)
	}

	latest := agg.LatestStart(sessions)
	windowStart := latest.AddDate(0, 0, -7*WindowWeeks)
	hist := b.completed(sessions, windowStart, latest)
	if len(hist.weeks) == 0 {
		return schema.RunnerSignature{}, fmt.Errorf("no completed week in the last %d weeks: %w", WindowWeeks, schema.ErrInsufficientHistory)
	}

	distances := make([]float64, len(hist.weeks))
	durations := make([]float64, len(hist.weeks))
	counts := make([]float64, len(hist.weeks))
	loads := make([]float64, len(hist.weeks))
	for i, w := range hist.weeks {
		distances[i] = w.DistanceKm
		durations[i] = w.DurationMin
		counts[i] = float64(w.Sessions)
		loads[i] = w.WeeklyLoad
	}

	highs := make([]float64, len(hist.sessions))
	lows := make([]float64, len(hist.sessions))
	for i, s := range hist.sessions {
		highs[i] = agg.SessionHighFraction(s)
		lows[i] = agg.SessionLowFraction(s)
	}

	acwrAvg, acwrMax := algo.ACWRSeries(loads)
	gaps := weekGaps(hist.keys)

	return schema.RunnerSignature{
		Period: schema.SignaturePeriod{
			Start: windowStart.Format(dateLayout),
			End:   latest.Format(dateLayout),
			Weeks: WindowWeeks,
		},
		Volume: schema.VolumeSignature{
			WeeklyAvgKm: algo.Mean(distances),
			WeeklyStdKm: algo.Std(distances),
			Trend12wPct: algo.TrendPct(distances, TrendWindow),
		},
		Duration: schema.DurationSignature{
			WeeklyAvgMin: algo.Mean(durations),
			WeeklyStdMin: algo.Std(durations),
		},
		Frequency: schema.FrequencySignature{
			WeeklyAvgSessions: algo.Mean(counts),
			WeeklyStdSessions: algo.Std(counts),
		},
		Intensity: schema.IntensitySignature{
			Z4Z5AvgPct:      algo.Clamp(algo.Mean(highs), 0, 1),
			Z4Z5Trend12wPct: algo.TrendPct(hist.weeklyHighs, TrendWindow),
			Z1Z3AvgPct:      algo.Clamp(algo.Mean(lows), 0, 1),
		},
		Load: schema.LoadSignature{
			WeeklyAvgLoad: algo.Mean(loads),
			WeeklyStdLoad: algo.Std(loads),
			ACWRAvg:       acwrAvg,
			ACWRMax:       acwrMax,
		},
		Regularity: schema.RegularitySignature{
			WeeksWithRunsPct: algo.Fraction(float64(len(hist.keys)), WindowWeeks),
			LongestBreakDays: longestBreakWeeks(gaps) * 7,
		},
		Robustness: robustness(len(hist.keys), gaps),
		Adaptation: schema.AdaptationSignature{
			LoadTrend12wPct: algo.TrendPct(loads, TrendWindow),
		},
	}, nil
}

// completed restricts sessions to (windowStart, latest] and keeps the ISO weeks
// other than the one in progress.
func (b *Builder) completed(sessions []schema.RawSession, windowStart, latest time.Time) completedHistory {
	var inWindow []schema.RawSession
	for _, s := range sessions {
		if s.StartTime.After(windowStart) && !s.StartTime.After(latest) {
			inWindow = append(inWindow, s)
		}
	}

	current := agg.WeekOf(b.now())
	buckets := agg.GroupByWeek(inWindow)

	var hist completedHistory
	for _, k := range agg.SortedWeekKeys(buckets) {
		if k == current {
			continue
		}
		userID := buckets[k][0].UserID
		hist.keys = append(hist.keys, k)
		hist.weeks = append(hist.weeks, agg.AggregateWeek(userID, k, buckets[k]))
		hist.sessions = append(hist.sessions, buckets[k]...)

		highs := make([]float64, len(buckets[k]))
		for i, s := range buckets[k] {
			highs[i] = agg.SessionHighFraction(s)
		}
		hist.weeklyHighs = append(hist.weeklyHighs, algo.Mean(highs))
	}
	return hist
}
