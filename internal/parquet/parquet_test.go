package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/albanecoiffe/health-data-coach/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "3f1c2a8e-9b7d-4c1e-8a2f-6d5e4c3b2a10"

func sampleSessions() []schema.RawSession {
	start := time.Date(2025, 10, 7, 7, 0, 0, 0, time.UTC)
	return []schema.RawSession{
		{
			UserID: testUser, StartTime: start, DistanceKm: 10.2, DurationMin: 55,
			AvgHeartRate: 148, ZoneMin: [5]float64{5, 30, 15, 5, 0}, ElevationGainM: 80, ActiveEnergyKcal: 640,
		},
		{
			UserID: testUser, StartTime: start.Add(48 * time.Hour), DistanceKm: 6, DurationMin: 36,
			ZoneMin: [5]float64{10, 26, 0, 0, 0},
		},
	}
}

func sampleWeeks() []schema.WeekAggregate {
	start := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	return []schema.WeekAggregate{
		{
			UserID: testUser, Year: 2025, Week: 41, StartDate: start, EndDate: start.AddDate(0, 0, 6),
			Sessions: 2, DistanceKm: 16.2, DurationMin: 91, LowFraction: 0.945, HighFraction: 0.055,
			WeeklyLoad: 101.01, LastSessionAt: start.Add(55 * time.Hour),
		},
	}
}

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestSessionStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Session))
	require.NotNil(t, s)

	expectedColumns := []string{
		"user_id", "start_time", "distance_km", "duration_min", "avg_hr",
		"z1_min", "z2_min", "z3_min", "z4_min", "z5_min",
		"elevation_gain_m", "active_energy_kcal",
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWeekStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Week))
	require.NotNil(t, s)

	expectedColumns := []string{
		"user_id", "iso_year", "iso_week", "week_start", "week_end", "sessions_count",
		"total_distance_km", "total_duration_min", "z1_z3_pct", "z4_z5_pct",
		"weekly_load", "last_session_at",
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertSessions(t *testing.T) {
	rows := ConvertSessions(sampleSessions())
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].AvgHeartRate, "recorded heart rate should be kept")
	assert.Equal(t, 148.0, *rows[0].AvgHeartRate)
	assert.Equal(t, 30.0, rows[0].Z2Min)
	assert.Nil(t, rows[1].AvgHeartRate, "missing heart rate should be null")
}

func TestWriteSessionsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "sessions.parquet")
	data := ConvertSessions(sampleSessions())

	require.NoError(t, WriteSessionsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	readData := readAll[Session](t, outputPath)
	require.Len(t, readData, len(data), "Should read all records")
	for i := range data {
		assert.Equal(t, data[i].UserID, readData[i].UserID)
		assert.True(t, data[i].StartTime.Equal(readData[i].StartTime), "StartTime should match")
		assert.InDelta(t, data[i].DistanceKm, readData[i].DistanceKm, 1e-9)
		assert.InDelta(t, data[i].Z4Min, readData[i].Z4Min, 1e-9)
		if data[i].AvgHeartRate == nil {
			assert.Nil(t, readData[i].AvgHeartRate, "AvgHeartRate should be nil")
		} else {
			require.NotNil(t, readData[i].AvgHeartRate, "AvgHeartRate should not be nil")
			assert.InDelta(t, *data[i].AvgHeartRate, *readData[i].AvgHeartRate, 1e-9)
		}
	}
}

func TestWriteWeeksParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "weeks.parquet")
	data := ConvertWeeks(sampleWeeks())

	require.NoError(t, WriteWeeksParquet(data, outputPath))

	readData := readAll[Week](t, outputPath)
	require.Len(t, readData, 1)
	assert.Equal(t, int32(2025), readData[0].ISOYear)
	assert.Equal(t, int32(41), readData[0].ISOWeek)
	assert.Equal(t, int32(2), readData[0].SessionsCount)
	assert.InDelta(t, 101.01, readData[0].WeeklyLoad, 1e-9)
	assert.InDelta(t, 0.055, readData[0].Z4Z5Pct, 1e-9)
	assert.True(t, data[0].WeekStart.Equal(readData[0].WeekStart), "WeekStart should match")
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty_weeks.parquet")

	require.NoError(t, WriteWeeksParquet([]Week{}, outputPath), "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteSessionsParquet(ConvertSessions(sampleSessions()), "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}
