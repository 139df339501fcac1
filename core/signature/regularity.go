package signature

import (
	"github.com/albanecoiffe/health-data-coach/core/agg"
	"github.com/albanecoiffe/health-data-coach/core/algo"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// weekGaps returns, for each pair of adjacent active weeks, the number of
// empty ISO weeks between them.
func weekGaps(keys []schema.WeekKey) []int {
	if len(keys) < 2 {
		return nil
	}
	gaps := make([]int, 0, len(keys)-1)
	for i := 1; i < len(keys); i++ {
		gaps = append(gaps, max(0, agg.WeekGap(keys[i-1], keys[i])))
	}
	return gaps
}

// longestBreakWeeks returns the longest run of empty weeks.
func longestBreakWeeks(gaps []int) int {
	longest := 0
	for _, g := range gaps {
		longest = max(longest, g)
	}
	return longest
}

// robustness derives interruption statistics from the active week count and
// the gaps between active weeks.
func robustness(activeWeeks int, gaps []int) schema.RobustnessSignature {
	var breakWeeks, over7d, maxStreak int
	streak := min(activeWeeks, 1)
	for _, g := range gaps {
		breakWeeks += g
		if g*7 > 7 {
			over7d++
		}
		if g == 0 {
			streak++
		} else {
			maxStreak = max(maxStreak, streak)
			streak = 1
		}
	}
	maxStreak = max(maxStreak, streak)

	return schema.RobustnessSignature{
		InjuryFreeWeeksPct:  algo.Clamp(1-float64(breakWeeks)/WindowWeeks, 0, 1),
		MaxConsecutiveWeeks: maxStreak,
		BreaksOver7dCount:   over7d,
	}
}
