package schema

// SignaturePeriod is the window a signature was computed over.
type SignaturePeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Weeks int    `json:"weeks"`
}

// VolumeSignature describes weekly distance.
type VolumeSignature struct {
	WeeklyAvgKm float64 `json:"weekly_avg_km"`
	WeeklyStdKm float64 `json:"weekly_std_km"`
	Trend12wPct float64 `json:"trend_12w_pct"`
}

// DurationSignature describes weekly time on feet.
type DurationSignature struct {
	WeeklyAvgMin float64 `json:"weekly_avg_min"`
	WeeklyStdMin float64 `json:"weekly_std_min"`
}

// FrequencySignature describes the weekly number of sessions.
type FrequencySignature struct {
	WeeklyAvgSessions float64 `json:"weekly_avg_sessions"`
	WeeklyStdSessions float64 `json:"weekly_std_sessions"`
}

// IntensitySignature describes the time spent at low and high intensity.
type IntensitySignature struct {
	Z4Z5AvgPct      float64 `json:"z4_z5_avg_pct"`
	Z4Z5Trend12wPct float64 `json:"z4_z5_trend_12w_pct"`
	Z1Z3AvgPct      float64 `json:"z1_z3_avg_pct"`
}

// LoadSignature describes weekly training load and the acute:chronic ratio.
type LoadSignature struct {
	WeeklyAvgLoad float64 `json:"weekly_avg_load"`
	WeeklyStdLoad float64 `json:"weekly_std_load"`
	ACWRAvg       float64 `json:"acwr_avg"`
	ACWRMax       float64 `json:"acwr_max"`
}

// RegularitySignature describes how consistently the runner trains.
type RegularitySignature struct {
	WeeksWithRunsPct float64 `json:"weeks_with_runs_pct"`
	LongestBreakDays int     `json:"longest_break_days"` // Always a multiple of 7
}

// RobustnessSignature describes interruptions of training.
type RobustnessSignature struct {
	InjuryFreeWeeksPct  float64 `json:"injury_free_weeks_pct"`
	MaxConsecutiveWeeks int     `json:"max_consecutive_weeks"`
	BreaksOver7dCount   int     `json:"breaks_over_7d_count"`
}

// AdaptationSignature describes how the weekly load evolves.
type AdaptationSignature struct {
	LoadTrend12wPct float64 `json:"load_std_trend_12w_pct"`
}

// RunnerSignature is the long-term profile of a runner over the trailing 52 weeks.
type RunnerSignature struct {
	Period     SignaturePeriod     `json:"period"`
	Volume     VolumeSignature     `json:"volume"`
	Duration   DurationSignature   `json:"duration"`
	Frequency  FrequencySignature  `json:"frequency"`
	Intensity  IntensitySignature  `json:"intensity"`
	Load       LoadSignature       `json:"load"`
	Regularity RegularitySignature `json:"regularity"`
	Robustness RobustnessSignature `json:"robustness"`
	Adaptation AdaptationSignature `json:"adaptation"`
}
