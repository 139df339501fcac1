package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// PrintIngestSummary outputs the outcome of an import in the configured format.
func PrintIngestSummary(summary schema.IngestSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIngestCSV(w, summary)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIngestText(w, summary, cfg.UseColors)
		}, "Wrote text")
	}
}

func writeIngestText(w io.Writer, summary schema.IngestSummary, useColors bool) error {
	source := summary.Source
	if source == "" {
		source = "sessions"
	}
	if _, err := fmt.Fprintf(w, "📥 Imported %s for user %s\n", source, summary.UserID); err != nil {
		return err
	}
	msg := fmt.Sprintf("   %d read, %d new, %d already stored", summary.Read, summary.Inserted, summary.Duplicates)
	if summary.Inserted > 0 {
		msg = colorize(useColors, contract.DoneColor, msg)
	}
	if _, err := fmt.Fprintln(w, msg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "   %d weeks of history\n", summary.Weeks)
	return err
}

func writeIngestCSV(w io.Writer, summary schema.IngestSummary) error {
	header := []string{"user_id", "source", "read", "inserted", "duplicates", "weeks"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			summary.UserID,
			summary.Source,
			strconv.Itoa(summary.Read),
			strconv.Itoa(summary.Inserted),
			strconv.Itoa(summary.Duplicates),
			strconv.Itoa(summary.Weeks),
		})
	})
}
