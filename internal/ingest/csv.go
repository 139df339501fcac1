// Package ingest reads raw session exports and watches import directories.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/albanecoiffe/health-data-coach/schema"
)

// Column names of a session export.
const (
	colStart     = "start_time"
	colDistance  = "distance_km"
	colDuration  = "duration_min"
	colHeartRate = "avg_hr"
	colElevation = "elevation_gain_m"
	colEnergy    = "active_energy_kcal"
)

// zoneColumns are the heart rate zone columns, zone 1 first.
var zoneColumns = [5]string{"z1_min", "z2_min", "z3_min", "z4_min", "z5_min"}

// Header is the canonical column order of a session export.
var Header = []string{
	colStart, colDistance, colDuration, colHeartRate,
	zoneColumns[0], zoneColumns[1], zoneColumns[2], zoneColumns[3], zoneColumns[4],
	colElevation, colEnergy,
}

// requiredColumns must be present in every export.
var requiredColumns = []string{colStart, colDistance, colDuration}

// timeLayouts are tried in order when parsing start_time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04",
}

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// ReadSessionsFile reads a CSV export from disk. See ReadSessions.
func ReadSessionsFile(path, userID string) ([]schema.RawSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sessions, err := ReadSessions(f, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sessions, nil
}

// ReadSessions parses a CSV export into sessions owned by userID.
// Columns are matched by header name, so their order does not matter.
// Empty optional values read as zero. Start times keep their wall clock and are stored as UTC,
// so a run keeps the ISO week it was recorded in.
func ReadSessions(r io.Reader, userID string) ([]schema.RawSession, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var sessions []schema.RawSession
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		s, err := parseRow(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s.UserID = userID
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// parseRow converts one CSV record into a session.
func parseRow(record []string, index map[string]int) (schema.RawSession, error) {
	var s schema.RawSession

	start, err := parseStart(field(record, index, colStart))
	if err != nil {
		return s, err
	}
	s.StartTime = start

	numbers := []struct {
		col string
		dst *float64
	}{
		{colDistance, &s.DistanceKm},
		{colDuration, &s.DurationMin},
		{colHeartRate, &s.AvgHeartRate},
		{zoneColumns[0], &s.ZoneMin[0]},
		{zoneColumns[1], &s.ZoneMin[1]},
		{zoneColumns[2], &s.ZoneMin[2]},
		{zoneColumns[3], &s.ZoneMin[3]},
		{zoneColumns[4], &s.ZoneMin[4]},
		{colElevation, &s.ElevationGainM},
		{colEnergy, &s.ActiveEnergyKcal},
	}
	for _, n := range numbers {
		v, err := parseNumber(field(record, index, n.col))
		if err != nil {
			return s, fmt.Errorf("%s: %w", n.col, err)
		}
		*n.dst = v
	}
	return s, nil
}

// field returns the trimmed value of a column, or "" when the column is absent.
func field(record []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseStart parses a start time and drops its offset, keeping the wall clock.
func parseStart(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is empty", colStart)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", colStart, raw)
}

// parseNumber parses a non-negative finite number. Empty reads as zero.
func parseNumber(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("value %q must be a non-negative number", raw)
	}
	return v, nil
}
