// Package parquet provides data structures and functions for exporting stored
// sessions and weekly aggregates to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/albanecoiffe/health-data-coach/schema"
	"github.com/parquet-go/parquet-go"
)

// Session represents a single imported run.
// This struct maps to the coach_sessions database table.
type Session struct {
	// UserID is the runner the session belongs to
	UserID string `parquet:"user_id,snappy,dict"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	DistanceKm  float64 `parquet:"distance_km,snappy"`
	DurationMin float64 `parquet:"duration_min,snappy"`

	// AvgHeartRate is empty when the device recorded no heart rate
	AvgHeartRate *float64 `parquet:"avg_hr,optional,snappy"`

	// Minutes spent in heart rate zones 1..5
	Z1Min float64 `parquet:"z1_min,snappy"`
	Z2Min float64 `parquet:"z2_min,snappy"`
	Z3Min float64 `parquet:"z3_min,snappy"`
	Z4Min float64 `parquet:"z4_min,snappy"`
	Z5Min float64 `parquet:"z5_min,snappy"`

	ElevationGainM   float64 `parquet:"elevation_gain_m,snappy"`
	ActiveEnergyKcal float64 `parquet:"active_energy_kcal,snappy"`
}

// Week represents the weekly fold of a runner's sessions.
// This struct maps to the coach_weeks database table.
type Week struct {
	UserID    string    `parquet:"user_id,snappy,dict"`
	ISOYear   int32     `parquet:"iso_year,snappy"`
	ISOWeek   int32     `parquet:"iso_week,snappy"`
	WeekStart time.Time `parquet:"week_start,snappy"`
	WeekEnd   time.Time `parquet:"week_end,snappy"`

	SessionsCount    int32   `parquet:"sessions_count,snappy"`
	TotalDistanceKm  float64 `parquet:"total_distance_km,snappy"`
	TotalDurationMin float64 `parquet:"total_duration_min,snappy"`

	// Z1Z3Pct and Z4Z5Pct are fractions of the zone time, not percentages
	Z1Z3Pct float64 `parquet:"z1_z3_pct,snappy"`
	Z4Z5Pct float64 `parquet:"z4_z5_pct,snappy"`

	WeeklyLoad    float64   `parquet:"weekly_load,snappy"`
	LastSessionAt time.Time `parquet:"last_session_at,snappy"`
}

// WriteSessionsParquet writes a slice of Session structs to a Parquet file.
func WriteSessionsParquet(data []Session, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteWeeksParquet writes a slice of Week structs to a Parquet file.
func WriteWeeksParquet(data []Week, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using the schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the row groups and writes the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertSessions converts schema.RawSession to Session for Parquet export.
func ConvertSessions(sessions []schema.RawSession) []Session {
	result := make([]Session, len(sessions))
	for i, s := range sessions {
		var hr *float64
		if s.AvgHeartRate > 0 {
			v := s.AvgHeartRate
			hr = &v
		}
		result[i] = Session{
			UserID:           s.UserID,
			StartTime:        s.StartTime,
			DistanceKm:       s.DistanceKm,
			DurationMin:      s.DurationMin,
			AvgHeartRate:     hr,
			Z1Min:            s.ZoneMin[0],
			Z2Min:            s.ZoneMin[1],
			Z3Min:            s.ZoneMin[2],
			Z4Min:            s.ZoneMin[3],
			Z5Min:            s.ZoneMin[4],
			ElevationGainM:   s.ElevationGainM,
			ActiveEnergyKcal: s.ActiveEnergyKcal,
		}
	}
	return result
}

// ConvertWeeks converts schema.WeekAggregate to Week for Parquet export.
func ConvertWeeks(weeks []schema.WeekAggregate) []Week {
	result := make([]Week, len(weeks))
	for i, w := range weeks {
		result[i] = Week{
			UserID:           w.UserID,
			ISOYear:          int32(w.Year),
			ISOWeek:          int32(w.Week),
			WeekStart:        w.StartDate,
			WeekEnd:          w.EndDate,
			SessionsCount:    int32(w.Sessions),
			TotalDistanceKm:  w.DistanceKm,
			TotalDurationMin: w.DurationMin,
			Z1Z3Pct:          w.LowFraction,
			Z4Z5Pct:          w.HighFraction,
			WeeklyLoad:       w.WeeklyLoad,
			LastSessionAt:    w.LastSessionAt,
		}
	}
	return result
}
