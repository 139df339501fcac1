// Package schema has the models and constants shared by every part of coach.
package schema

import "time"

// RawSession is one completed run as it was imported.
// Sessions are immutable and keyed by (UserID, StartTime).
type RawSession struct {
	UserID           string     `json:"user_id"`
	StartTime        time.Time  `json:"start_time"`
	DistanceKm       float64    `json:"distance_km"`
	DurationMin      float64    `json:"duration_min"`
	AvgHeartRate     float64    `json:"avg_hr"`
	ZoneMin          [5]float64 `json:"zone_min"` // Minutes spent in heart rate zones 1..5
	ElevationGainM   float64    `json:"elevation_gain_m"`
	ActiveEnergyKcal float64    `json:"active_energy_kcal"`
}

// LowZoneMin returns the minutes spent in zones 1 to 3.
func (s RawSession) LowZoneMin() float64 {
	return s.ZoneMin[0] + s.ZoneMin[1] + s.ZoneMin[2]
}

// HighZoneMin returns the minutes spent in zones 4 and 5.
func (s RawSession) HighZoneMin() float64 {
	return s.ZoneMin[3] + s.ZoneMin[4]
}

// TotalZoneMin returns the minutes spent across all zones.
func (s RawSession) TotalZoneMin() float64 {
	return s.LowZoneMin() + s.HighZoneMin()
}

// WeekKey identifies an ISO-8601 week.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// WeekAggregate is the weekly fold of a user's sessions.
type WeekAggregate struct {
	UserID        string    `json:"user_id"`
	Year          int       `json:"year"`
	Week          int       `json:"iso_week"`
	StartDate     time.Time `json:"week_start"`
	EndDate       time.Time `json:"week_end"`
	Sessions      int       `json:"sessions_count"`
	DistanceKm    float64   `json:"total_distance_km"`
	DurationMin   float64   `json:"total_duration_min"`
	LowFraction   float64   `json:"z1_z3_pct"`
	HighFraction  float64   `json:"z4_z5_pct"`
	WeeklyLoad    float64   `json:"weekly_load"`
	LastSessionAt time.Time `json:"last_session_at"`
}

// Key returns the ISO week key of the aggregate.
func (w WeekAggregate) Key() WeekKey {
	return WeekKey{Year: w.Year, Week: w.Week}
}

// SessionProfile is a session together with its label, when one could be computed.
type SessionProfile struct {
	Session RawSession  `json:"session"`
	Type    SessionType `json:"type,omitempty"`
	Labeled bool        `json:"labeled"`
}
