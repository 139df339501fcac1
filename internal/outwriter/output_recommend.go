package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRecommendation outputs the plan of the current week in the configured format.
func PrintRecommendation(rec schema.WeekRecommendation, cfg *contract.Config) error {
	fmtFloat, fmtPct := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rec)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecommendationCSV(w, rec, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecommendationText(w, rec, cfg, fmtFloat, fmtPct)
		}, "Wrote table")
	}
}

func writeRecommendationText(w io.Writer, rec schema.WeekRecommendation, cfg *contract.Config, fmtFloat, fmtPct func(float64) string) error {
	lines := []string{
		fmt.Sprintf("🎯 Target: %d sessions this week (%s profile)", rec.TargetSessions, rec.DominantWeekCharacter),
		fmt.Sprintf("⚠️  Risk: %s (avg %s over the last 3 weeks)", riskLabel(cfg.UseColors, rec.RiskLevel), fmtPct(rec.AvgRiskLast3w)),
	}
	if rec.PreviousWeekHadSessions {
		lines = append(lines, fmt.Sprintf("📅 Last week: %d sessions, %s km",
			rec.PreviousWeekSummary.Sessions, fmtFloat(rec.PreviousWeekSummary.DistanceKm)))
	} else {
		lines = append(lines, "📅 Last week: no sessions")
	}
	lines = append(lines, fmt.Sprintf("🗒️  Plan: %s", joinTypes(rec.AdjustedPlan)))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(rec.DoneSessionsDetails) > 0 {
		if _, err := fmt.Fprintln(w, "\nDone this week"); err != nil {
			return err
		}
		if err := writeDoneTable(w, rec.DoneSessionsDetails, cfg.UseColors, fmtFloat, fmtPct); err != nil {
			return err
		}
	}

	if rec.WeekComplete {
		_, err := fmt.Fprintln(w, colorize(cfg.UseColors, contract.DoneColor, "\n✅ Week complete. Rest well."))
		return err
	}

	if _, err := fmt.Fprintf(w, "\nRemaining (%d)\n", rec.RemainingSessionsCount); err != nil {
		return err
	}
	return writeRemainingTable(w, rec.RemainingSessions, isWide(cfg), fmtFloat, fmtPct)
}

func writeDoneTable(w io.Writer, done []schema.DoneSessionDetail, useColors bool, fmtFloat, fmtPct func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"", "Type", "Min", "Km", "Z1-Z3", "Z4-Z5"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range done {
		data = append(data, []string{
			colorize(useColors, contract.DoneColor, "✔"),
			string(d.Type),
			fmtFloat(d.DurationMin),
			fmtFloat(d.DistanceKm),
			fmtPct(d.LowIntensityPct),
			fmtPct(d.HighIntensityPct),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeRemainingTable(w io.Writer, planned []schema.PlannedSession, wide bool, fmtFloat, fmtPct func(float64) string) error {
	table := tablewriter.NewWriter(w)
	headers := []string{"#", "Session", "Min", "Km", "Z1-Z3", "Z4-Z5"}
	if wide {
		headers = append(headers, "Min Range", "Km Range")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, p := range planned {
		dp := p.DataProfile
		row := []string{
			strconv.Itoa(i + 1),
			p.Label,
			fmtFloat(dp.AvgDurationMin),
			fmtFloat(dp.AvgDistanceKm),
			fmtPct(dp.LowIntensityPct),
			fmtPct(dp.HighIntensityPct),
		}
		if wide {
			row = append(row,
				fmtFloat(dp.MinDurationMin)+"-"+fmtFloat(dp.MaxDurationMin),
				fmtFloat(dp.MinDistanceKm)+"-"+fmtFloat(dp.MaxDistanceKm),
			)
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeRecommendationCSV writes one row per done or remaining session.
func writeRecommendationCSV(w io.Writer, rec schema.WeekRecommendation, fmtFloat func(float64) string) error {
	header := []string{"status", "type", "label", "duration_min", "distance_km", "z1_z3_pct", "z4_z5_pct", "risk_level", "target_sessions"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		risk := string(rec.RiskLevel)
		target := strconv.Itoa(rec.TargetSessions)
		for _, d := range rec.DoneSessionsDetails {
			if err := cw.Write([]string{
				"done", string(d.Type), "",
				fmtFloat(d.DurationMin), fmtFloat(d.DistanceKm),
				strconv.FormatFloat(d.LowIntensityPct, 'f', 4, 64),
				strconv.FormatFloat(d.HighIntensityPct, 'f', 4, 64),
				risk, target,
			}); err != nil {
				return err
			}
		}
		for _, p := range rec.RemainingSessions {
			dp := p.DataProfile
			if err := cw.Write([]string{
				"remaining", string(p.Type), p.Label,
				fmtFloat(dp.AvgDurationMin), fmtFloat(dp.AvgDistanceKm),
				strconv.FormatFloat(dp.LowIntensityPct, 'f', 4, 64),
				strconv.FormatFloat(dp.HighIntensityPct, 'f', 4, 64),
				risk, target,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func joinTypes(types []schema.SessionType) string {
	if len(types) == 0 {
		return "-"
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, " → ")
}
