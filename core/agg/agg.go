// Package agg folds raw sessions into ISO-week aggregates.
package agg

import (
	"math"
	"sort"
	"time"

	"github.com/albanecoiffe/health-data-coach/core/algo"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// HighIntensityLoadFactor weights the fraction of time spent in zones 4-5 in the session load.
const HighIntensityLoadFactor = 2.0

// WeekOf returns the ISO week containing t, in t's own location.
func WeekOf(t time.Time) schema.WeekKey {
	year, week := t.ISOWeek()
	return schema.WeekKey{Year: year, Week: week}
}

// WeekStart returns the Monday (UTC midnight) opening the given ISO week.
func WeekStart(k schema.WeekKey) time.Time {
	// January 4th is always in ISO week 1.
	jan4 := time.Date(k.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7 // days since Monday
	return jan4.AddDate(0, 0, -offset+(k.Week-1)*7)
}

// WeekEnd returns the Sunday (UTC midnight) closing the given ISO week.
func WeekEnd(k schema.WeekKey) time.Time {
	return WeekStart(k).AddDate(0, 0, 6)
}

// WeekGap returns the number of whole ISO weeks strictly between a and b.
// It is negative or zero when b does not come after a with a hole in between.
func WeekGap(a, b schema.WeekKey) int {
	days := WeekStart(b).Sub(WeekStart(a)).Hours() / 24
	return int(math.Round(days/7)) - 1
}

// Before reports whether week a comes strictly before week b.
func Before(a, b schema.WeekKey) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	return a.Week < b.Week
}

// SessionHighFraction returns the fraction of the session duration spent in zones 4-5.
func SessionHighFraction(s schema.RawSession) float64 {
	return algo.Fraction(s.HighZoneMin(), math.Max(s.DurationMin, 1))
}

// SessionLowFraction returns the fraction of the session duration spent in zones 1-3.
func SessionLowFraction(s schema.RawSession) float64 {
	return algo.Fraction(s.LowZoneMin(), math.Max(s.DurationMin, 1))
}

// SessionLoad returns duration * (1 + 2 * high intensity fraction).
func SessionLoad(s schema.RawSession) float64 {
	return s.DurationMin * (1 + HighIntensityLoadFactor*SessionHighFraction(s))
}

// GroupByWeek partitions sessions by ISO week. Sessions inside a bucket keep
// chronological order.
func GroupByWeek(sessions []schema.RawSession) map[schema.WeekKey][]schema.RawSession {
	sorted := sortedByStart(sessions)
	buckets := make(map[schema.WeekKey][]schema.RawSession)
	for _, s := range sorted {
		k := WeekOf(s.StartTime)
		buckets[k] = append(buckets[k], s)
	}
	return buckets
}

// SortedWeekKeys returns the keys of buckets in chronological order.
func SortedWeekKeys[T any](buckets map[schema.WeekKey]T) []schema.WeekKey {
	keys := make([]schema.WeekKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return Before(keys[i], keys[j]) })
	return keys
}

// AggregateWeek folds the sessions of one ISO week into a WeekAggregate.
// Zone fractions are relative to the total time spent across zones.
func AggregateWeek(userID string, key schema.WeekKey, sessions []schema.RawSession) schema.WeekAggregate {
	w := schema.WeekAggregate{
		UserID:    userID,
		Year:      key.Year,
		Week:      key.Week,
		StartDate: WeekStart(key),
		EndDate:   WeekEnd(key),
		Sessions:  len(sessions),
	}

	var lowZone, highZone float64
	for _, s := range sessions {
		w.DistanceKm += s.DistanceKm
		w.DurationMin += s.DurationMin
		w.WeeklyLoad += SessionLoad(s)
		lowZone += s.LowZoneMin()
		highZone += s.HighZoneMin()
		if s.StartTime.After(w.LastSessionAt) {
			w.LastSessionAt = s.StartTime
		}
	}

	if total := lowZone + highZone; total > 0 {
		w.HighFraction = algo.Fraction(highZone, total)
		w.LowFraction = 1 - w.HighFraction
	}
	return w
}

// RebuildWeekAggregates folds all sessions of a user into one aggregate per ISO
// week, ordered chronologically. The result depends only on the set of sessions,
// not on their order, so rebuilding twice yields identical rows.
func RebuildWeekAggregates(userID string, sessions []schema.RawSession) []schema.WeekAggregate {
	buckets := GroupByWeek(sessions)
	weeks := make([]schema.WeekAggregate, 0, len(buckets))
	for _, k := range SortedWeekKeys(buckets) {
		weeks = append(weeks, AggregateWeek(userID, k, buckets[k]))
	}
	return weeks
}

// CompletedWeeks returns the weeks strictly before the ISO week containing now.
func CompletedWeeks(weeks []schema.WeekAggregate, now time.Time) []schema.WeekAggregate {
	current := WeekOf(now)
	completed := make([]schema.WeekAggregate, 0, len(weeks))
	for _, w := range weeks {
		if Before(w.Key(), current) {
			completed = append(completed, w)
		}
	}
	sort.Slice(completed, func(i, j int) bool { return Before(completed[i].Key(), completed[j].Key()) })
	return completed
}

// CurrentWeekSessions returns the sessions whose start falls in the ISO week containing now.
func CurrentWeekSessions(sessions []schema.RawSession, now time.Time) []schema.RawSession {
	current := WeekOf(now)
	var out []schema.RawSession
	for _, s := range sortedByStart(sessions) {
		if WeekOf(s.StartTime) == current {
			out = append(out, s)
		}
	}
	return out
}

// LatestStart returns the latest session start, or the zero time if there are none.
func LatestStart(sessions []schema.RawSession) time.Time {
	var latest time.Time
	for _, s := range sessions {
		if s.StartTime.After(latest) {
			latest = s.StartTime
		}
	}
	return latest
}

// sortedByStart returns a chronologically sorted copy of sessions.
func sortedByStart(sessions []schema.RawSession) []schema.RawSession {
	sorted := make([]schema.RawSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})
	return sorted
}
