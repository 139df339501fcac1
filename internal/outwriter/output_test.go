package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWeeks() []schema.WeekAggregate {
	start := time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)
	return []schema.WeekAggregate{
		{
			UserID: "u1", Year: 2025, Week: 40,
			StartDate: start, EndDate: start.AddDate(0, 0, 6),
			Sessions: 3, DistanceKm: 25.04, DurationMin: 160,
			LowFraction: 0.93, HighFraction: 0.07, WeeklyLoad: 185.6,
			LastSessionAt: start.AddDate(0, 0, 5).Add(7 * time.Hour),
		},
		{
			UserID: "u1", Year: 2025, Week: 41,
			StartDate: start.AddDate(0, 0, 7), EndDate: start.AddDate(0, 0, 13),
			Sessions: 2, DistanceKm: 18, DurationMin: 110,
			LowFraction: 0.8, HighFraction: 0.2, WeeklyLoad: 154,
			LastSessionAt: start.AddDate(0, 0, 10),
		},
	}
}

func sampleRecommendation() schema.WeekRecommendation {
	return schema.WeekRecommendation{
		TargetSessions:        3,
		DominantWeekCluster:   0,
		DominantWeekCharacter: schema.ControlledWeek,
		AvgRiskLast3w:         0.22,
		RiskLevel:             schema.LowRisk,
		BasePlan:              []schema.SessionType{schema.EasySession, schema.EnduranceSession, schema.IntensitySession},
		AdjustedPlan:          []schema.SessionType{schema.EasySession, schema.EnduranceSession, schema.IntensitySession},
		RemainingPlan:         []schema.SessionType{schema.EnduranceSession, schema.IntensitySession},
		DoneSessions:          []schema.SessionType{schema.EasySession},
		DoneSessionsDetails: []schema.DoneSessionDetail{
			{Type: schema.EasySession, DurationMin: 45, DistanceKm: 7.2, LowIntensityPct: 0.95, HighIntensityPct: 0.05},
		},
		RemainingSessionsCount: 2,
		RemainingSessions: []schema.PlannedSession{
			{Type: schema.EnduranceSession, Label: "Endurance run", DataProfile: schema.SessionDataProfile{
				AvgDurationMin: 75, AvgDistanceKm: 12, LowIntensityPct: 0.91, HighIntensityPct: 0.09,
				MinDurationMin: 60, MaxDurationMin: 95, MinDistanceKm: 9, MaxDistanceKm: 16,
			}},
			{Type: schema.IntensitySession, Label: "Intensity session", DataProfile: schema.SessionDataProfile{
				AvgDurationMin: 50, AvgDistanceKm: 8.5, LowIntensityPct: 0.44, HighIntensityPct: 0.56,
			}},
		},
		PreviousWeekHadSessions: true,
		PreviousWeekSummary:     schema.PreviousWeekSummary{Sessions: 3, DistanceKm: 25.04},
	}
}

func TestPrintIngestSummary(t *testing.T) {
	summary := schema.IngestSummary{UserID: "u1", Source: "export.csv", Read: 10, Inserted: 7, Duplicates: 3, Weeks: 4}

	var buf bytes.Buffer
	require.NoError(t, writeIngestText(&buf, summary, false))
	assert.Contains(t, buf.String(), "Imported export.csv for user u1")
	assert.Contains(t, buf.String(), "10 read, 7 new, 3 already stored")
	assert.Contains(t, buf.String(), "4 weeks of history")

	buf.Reset()
	require.NoError(t, writeIngestCSV(&buf, summary))
	assert.Equal(t, "user_id,source,read,inserted,duplicates,weeks\nu1,export.csv,10,7,3,4\n", buf.String())

	out := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, PrintIngestSummary(summary, &contract.Config{Output: schema.JSONOut, OutputFile: out}))
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	var decoded schema.IngestSummary
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, summary, decoded)
}

func TestPrintWeeks(t *testing.T) {
	fmtFloat, fmtPct := createFormatters(1)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeWeeksTable(&buf, sampleWeeks(), &contract.Config{Width: 80}, fmtFloat, fmtPct))
		out := buf.String()
		assert.Contains(t, out, "2025-W40")
		assert.Contains(t, out, "2025-09-29")
		assert.Contains(t, out, "93.0%")
		assert.NotContains(t, out, "LAST RUN")
		assert.Contains(t, out, "Showing 2 weeks (total distance: 43.0 km)")
	})

	t.Run("wide table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeWeeksTable(&buf, sampleWeeks(), &contract.Config{Width: 200}, fmtFloat, fmtPct))
		assert.Contains(t, strings.ToUpper(buf.String()), "LAST RUN")
		assert.Contains(t, buf.String(), "2025-10-04")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeWeeksTable(&buf, nil, &contract.Config{}, fmtFloat, fmtPct))
		assert.Contains(t, buf.String(), "No weeks recorded yet")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeWeeksCSV(&buf, sampleWeeks(), fmtFloat))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "iso_week", records[0][2])
		assert.Equal(t, []string{"u1", "2025", "40", "2025-09-29", "2025-10-05", "3", "25.0", "160.0", "0.9300", "0.0700", "185.6", "2025-10-04T07:00:00Z"}, records[1])
	})

	t.Run("json to file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "weeks.json")
		require.NoError(t, PrintWeeks(nil, &contract.Config{Output: schema.JSONOut, OutputFile: out, Precision: 1}))
		content, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(content))
	})
}

func TestPrintSignature(t *testing.T) {
	sig := schema.RunnerSignature{
		Period:     schema.SignaturePeriod{Start: "2024-10-15", End: "2025-10-14", Weeks: 52},
		Volume:     schema.VolumeSignature{WeeklyAvgKm: 24.9, WeeklyStdKm: 1.25, Trend12wPct: 0.05},
		Regularity: schema.RegularitySignature{WeeksWithRunsPct: 0.5, LongestBreakDays: 14},
	}
	fmtFloat, fmtPct := createFormatters(1)

	metrics := flattenSignature(sig)
	require.Len(t, metrics, 20)
	assert.Equal(t, signatureMetric{Section: "volume", Name: "weekly_avg_km", Value: 24.9}, metrics[0])

	var buf bytes.Buffer
	require.NoError(t, writeSignatureTable(&buf, sig, true, fmtFloat, fmtPct))
	out := buf.String()
	assert.Contains(t, out, "2024-10-15 → 2025-10-14 (52 weeks, cached)")
	assert.Contains(t, out, "weekly_avg_km")
	assert.Contains(t, out, "24.9")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "14")

	buf.Reset()
	require.NoError(t, writeSignatureCSV(&buf, sig))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+3+20)
	assert.Equal(t, []string{"period", "weeks", "52"}, records[3])
	assert.Equal(t, []string{"volume", "weekly_std_km", "1.25"}, records[5])

	out = filepath.Join(t.TempDir(), "sig.json")
	require.NoError(t, PrintSignature(sig, false, &contract.Config{Output: schema.JSONOut, OutputFile: out, Precision: 1}))
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	var decoded signatureJSON
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.False(t, decoded.Cached)
	assert.Equal(t, sig, decoded.Signature)
}

func TestPrintRecommendation(t *testing.T) {
	fmtFloat, fmtPct := createFormatters(1)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRecommendationText(&buf, sampleRecommendation(), &contract.Config{Width: 80}, fmtFloat, fmtPct))
		out := buf.String()
		assert.Contains(t, out, "Target: 3 sessions this week (controlled profile)")
		assert.Contains(t, out, "Risk: Low (avg 22.0% over the last 3 weeks)")
		assert.Contains(t, out, "Last week: 3 sessions, 25.0 km")
		assert.Contains(t, out, "easy → endurance → intensity")
		assert.Contains(t, out, "Done this week")
		assert.Contains(t, out, "Remaining (2)")
		assert.Contains(t, out, "Endurance run")
		assert.NotContains(t, out, "60.0-95.0")
	})

	t.Run("wide text shows ranges", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRecommendationText(&buf, sampleRecommendation(), &contract.Config{Width: 200}, fmtFloat, fmtPct))
		assert.Contains(t, buf.String(), "60.0-95.0")
	})

	t.Run("week complete", func(t *testing.T) {
		rec := sampleRecommendation()
		rec.WeekComplete = true
		rec.RemainingSessionsCount = 0
		rec.RemainingSessions = nil
		rec.PreviousWeekHadSessions = false
		var buf bytes.Buffer
		require.NoError(t, writeRecommendationText(&buf, rec, &contract.Config{Width: 80}, fmtFloat, fmtPct))
		assert.Contains(t, buf.String(), "Week complete")
		assert.Contains(t, buf.String(), "Last week: no sessions")
		assert.NotContains(t, buf.String(), "Remaining")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRecommendationCSV(&buf, sampleRecommendation(), fmtFloat))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, []string{"done", "easy", "", "45.0", "7.2", "0.9500", "0.0500", "low", "3"}, records[1])
		assert.Equal(t, "remaining", records[2][0])
		assert.Equal(t, "Endurance run", records[2][2])
	})

	t.Run("json to file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "rec.json")
		rec := sampleRecommendation()
		require.NoError(t, PrintRecommendation(rec, &contract.Config{Output: schema.JSONOut, OutputFile: out, Precision: 1}))
		content, err := os.ReadFile(out)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(content, &decoded))
		assert.Equal(t, float64(3), decoded["target_sessions"])
		assert.Equal(t, "low", decoded["risk_level"])
		assert.Len(t, decoded["adjusted_plan_remaining"], 2)
	})
}

func TestJoinTypes(t *testing.T) {
	assert.Equal(t, "-", joinTypes(nil))
	assert.Equal(t, "easy", joinTypes([]schema.SessionType{schema.EasySession}))
}

func TestPrintStoreStatus(t *testing.T) {
	status := schema.StoreStatus{
		Backend:           "sqlite",
		Connected:         true,
		TotalSessions:     30,
		TotalUsers:        1,
		OldestSessionTime: time.Date(2025, 8, 5, 7, 0, 0, 0, time.UTC),
		StaleSignatures:   1,
		TableSizes:        map[string]int64{"coach_weeks": 10, "coach_sessions": 30},
	}

	var buf bytes.Buffer
	require.NoError(t, writeStoreStatusCSV(&buf, status))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+7+2)
	assert.Equal(t, []string{"oldest_session_time", "2025-08-05T07:00:00Z"}, records[5])
	assert.Equal(t, []string{"latest_session_time", ""}, records[6])
	assert.Equal(t, []string{"table_rows.coach_sessions", "30"}, records[8])
	assert.Equal(t, []string{"table_rows.coach_weeks", "10"}, records[9])

	out := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, PrintStoreStatus(status, &contract.Config{Output: schema.JSONOut, OutputFile: out}))
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"total_sessions": 30`)
}
