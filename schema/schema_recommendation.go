package schema

// SessionDataProfile holds the descriptive statistics of a session type.
type SessionDataProfile struct {
	AvgDurationMin   float64 `json:"avg_duration_min"`
	AvgDistanceKm    float64 `json:"avg_distance_km"`
	LowIntensityPct  float64 `json:"low_intensity_pct"`
	HighIntensityPct float64 `json:"high_intensity_pct"`
	MinDurationMin   float64 `json:"min_duration_min"`
	MaxDurationMin   float64 `json:"max_duration_min"`
	MinDistanceKm    float64 `json:"min_distance_km"`
	MaxDistanceKm    float64 `json:"max_distance_km"`
}

// PlannedSession is one slot of the remaining plan, enriched for display.
type PlannedSession struct {
	Type        SessionType        `json:"type"`
	Label       string             `json:"label"`
	DataProfile SessionDataProfile `json:"data_profile"`
}

// DoneSessionDetail summarizes a labeled session of the current week.
type DoneSessionDetail struct {
	Type             SessionType `json:"type"`
	DurationMin      float64     `json:"duration_min"`
	DistanceKm       float64     `json:"distance_km"`
	LowIntensityPct  float64     `json:"low_intensity_pct"`
	HighIntensityPct float64     `json:"high_intensity_pct"`
}

// PreviousWeekSummary is a factual summary of the last completed week.
type PreviousWeekSummary struct {
	Sessions   int     `json:"sessions"`
	DistanceKm float64 `json:"distance_km"`
}

// WeekRecommendation is the plan proposed for the current ISO week.
type WeekRecommendation struct {
	TargetSessions          int                 `json:"target_sessions"`
	DominantWeekCluster     int                 `json:"dominant_week_cluster"`
	DominantWeekCharacter   WeekCharacter       `json:"dominant_week_character"`
	AvgRiskLast3w           float64             `json:"avg_risk_last_3w"`
	RiskLevel               RiskLevel           `json:"risk_level"`
	BasePlan                []SessionType       `json:"base_plan"`
	AdjustedPlan            []SessionType       `json:"adjusted_plan"`
	RemainingPlan           []SessionType       `json:"adjusted_plan_remaining"`
	DoneSessions            []SessionType       `json:"done_sessions"`
	RemainingSessionsCount  int                 `json:"remaining_sessions_count"`
	RemainingSessions       []PlannedSession    `json:"remaining_sessions"`
	DoneSessionsDetails     []DoneSessionDetail `json:"done_sessions_details"`
	WeekComplete            bool                `json:"week_complete"`
	PreviousWeekHadSessions bool                `json:"previous_week_had_sessions"`
	PreviousWeekSummary     PreviousWeekSummary `json:"previous_week_summary"`
}
