package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintWeeks outputs the weekly aggregates, dispatching based on the output format configured.
func PrintWeeks(weeks []schema.WeekAggregate, cfg *contract.Config) error {
	fmtFloat, fmtPct := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if weeks == nil {
				weeks = []schema.WeekAggregate{}
			}
			return writeJSON(w, weeks)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeeksCSV(w, weeks, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeeksTable(w, weeks, cfg, fmtFloat, fmtPct)
		}, "Wrote table")
	}
}

// writeWeeksTable generates and writes the human-readable table.
func writeWeeksTable(w io.Writer, weeks []schema.WeekAggregate, cfg *contract.Config, fmtFloat, fmtPct func(float64) string) error {
	if len(weeks) == 0 {
		_, err := fmt.Fprintln(w, "No weeks recorded yet. Import sessions with 'coach ingest'.")
		return err
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"Week", "Start", "Runs", "Km", "Min", "Z1-Z3", "Z4-Z5", "Load"}
	wide := isWide(cfg)
	if wide {
		headers = append(headers, "Last Run")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var totalKm float64
	for _, wk := range weeks {
		row := []string{
			fmt.Sprintf("%d-W%02d", wk.Year, wk.Week),
			formatDate(wk.StartDate),
			strconv.Itoa(wk.Sessions),
			fmtFloat(wk.DistanceKm),
			fmtFloat(wk.DurationMin),
			fmtPct(wk.LowFraction),
			fmtPct(wk.HighFraction),
			fmtFloat(wk.WeeklyLoad),
		}
		if wide {
			row = append(row, formatDate(wk.LastSessionAt))
		}
		data = append(data, row)
		totalKm += wk.DistanceKm
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d weeks (total distance: %s km)\n", len(weeks), fmtFloat(totalKm))
	return err
}

// writeWeeksCSV writes the weekly aggregates in CSV format.
func writeWeeksCSV(w io.Writer, weeks []schema.WeekAggregate, fmtFloat func(float64) string) error {
	header := []string{
		"user_id",
		"iso_year",
		"iso_week",
		"week_start",
		"week_end",
		"sessions_count",
		"total_distance_km",
		"total_duration_min",
		"z1_z3_pct",
		"z4_z5_pct",
		"weekly_load",
		"last_session_at",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, wk := range weeks {
			rec := []string{
				wk.UserID,
				strconv.Itoa(wk.Year),
				strconv.Itoa(wk.Week),
				formatDate(wk.StartDate),
				formatDate(wk.EndDate),
				strconv.Itoa(wk.Sessions),
				fmtFloat(wk.DistanceKm),
				fmtFloat(wk.DurationMin),
				strconv.FormatFloat(wk.LowFraction, 'f', 4, 64),
				strconv.FormatFloat(wk.HighFraction, 'f', 4, 64),
				fmtFloat(wk.WeeklyLoad),
				formatTime(wk.LastSessionAt),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
