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

// signatureMetric is one flattened value of a RunnerSignature.
type signatureMetric struct {
	Section string
	Name    string
	Value   float64
	Pct     bool // Value is a fraction
	Int     bool
}

// signatureJSON is the JSON document written for a signature.
type signatureJSON struct {
	Cached    bool                   `json:"cached"`
	Signature schema.RunnerSignature `json:"signature"`
}

// flattenSignature lists the metrics of a signature in display order.
func flattenSignature(sig schema.RunnerSignature) []signatureMetric {
	return []signatureMetric{
		{Section: "volume", Name: "weekly_avg_km", Value: sig.Volume.WeeklyAvgKm},
		{Section: "volume", Name: "weekly_std_km", Value: sig.Volume.WeeklyStdKm},
		{Section: "volume", Name: "trend_12w_pct", Value: sig.Volume.Trend12wPct, Pct: true},
		{Section: "duration", Name: "weekly_avg_min", Value: sig.Duration.WeeklyAvgMin},
		{Section: "duration", Name: "weekly_std_min", Value: sig.Duration.WeeklyStdMin},
		{Section: "frequency", Name: "weekly_avg_sessions", Value: sig.Frequency.WeeklyAvgSessions},
		{Section: "frequency", Name: "weekly_std_sessions", Value: sig.Frequency.WeeklyStdSessions},
		{Section: "intensity", Name: "z4_z5_avg_pct", Value: sig.Intensity.Z4Z5AvgPct, Pct: true},
		{Section: "intensity", Name: "z4_z5_trend_12w_pct", Value: sig.Intensity.Z4Z5Trend12wPct, Pct: true},
		{Section: "intensity", Name: "z1_z3_avg_pct", Value: sig.Intensity.Z1Z3AvgPct, Pct: true},
		{Section: "load", Name: "weekly_avg_load", Value: sig.Load.WeeklyAvgLoad},
		{Section: "load", Name: "weekly_std_load", Value: sig.Load.WeeklyStdLoad},
		{Section: "load", Name: "acwr_avg", Value: sig.Load.ACWRAvg},
		{Section: "load", Name: "acwr_max", Value: sig.Load.ACWRMax},
		{Section: "regularity", Name: "weeks_with_runs_pct", Value: sig.Regularity.WeeksWithRunsPct, Pct: true},
		{Section: "regularity", Name: "longest_break_days", Value: float64(sig.Regularity.LongestBreakDays), Int: true},
		{Section: "robustness", Name: "injury_free_weeks_pct", Value: sig.Robustness.InjuryFreeWeeksPct, Pct: true},
		{Section: "robustness", Name: "max_consecutive_weeks", Value: float64(sig.Robustness.MaxConsecutiveWeeks), Int: true},
		{Section: "robustness", Name: "breaks_over_7d_count", Value: float64(sig.Robustness.BreaksOver7dCount), Int: true},
		{Section: "adaptation", Name: "load_std_trend_12w_pct", Value: sig.Adaptation.LoadTrend12wPct, Pct: true},
	}
}

// PrintSignature outputs the runner signature in the configured format.
func PrintSignature(sig schema.RunnerSignature, cached bool, cfg *contract.Config) error {
	fmtFloat, fmtPct := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, signatureJSON{Cached: cached, Signature: sig})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSignatureCSV(w, sig)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSignatureTable(w, sig, cached, fmtFloat, fmtPct)
		}, "Wrote table")
	}
}

func writeSignatureTable(w io.Writer, sig schema.RunnerSignature, cached bool, fmtFloat, fmtPct func(float64) string) error {
	source := "computed"
	if cached {
		source = "cached"
	}
	if _, err := fmt.Fprintf(w, "🏃 Runner signature %s → %s (%d weeks, %s)\n",
		sig.Period.Start, sig.Period.End, sig.Period.Weeks, source); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Section", "Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, m := range flattenSignature(sig) {
		var value string
		switch {
		case m.Int:
			value = strconv.Itoa(int(m.Value))
		case m.Pct:
			value = fmtPct(m.Value)
		default:
			value = fmtFloat(m.Value)
		}
		data = append(data, []string{m.Section, m.Name, value})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeSignatureCSV writes one row per metric with full precision.
func writeSignatureCSV(w io.Writer, sig schema.RunnerSignature) error {
	return writeCSVWithHeader(w, []string{"section", "metric", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"period", "start", sig.Period.Start},
			{"period", "end", sig.Period.End},
			{"period", "weeks", strconv.Itoa(sig.Period.Weeks)},
		}
		for _, m := range flattenSignature(sig) {
			rows = append(rows, []string{m.Section, m.Name, strconv.FormatFloat(m.Value, 'f', -1, 64)})
		}
		return cw.WriteAll(rows)
	})
}
