package outwriter

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// PrintStoreStatus outputs the store status as JSON or CSV.
// Text output is handled by iocache.PrintStoreStatus.
func PrintStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.CSVOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStoreStatusCSV(w, status)
		}, "Wrote CSV")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, status)
	}, "Wrote JSON")
}

// writeStoreStatusCSV writes the status as key/value rows.
func writeStoreStatusCSV(w io.Writer, status schema.StoreStatus) error {
	return writeCSVWithHeader(w, []string{"key", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"backend", status.Backend},
			{"connected", strconv.FormatBool(status.Connected)},
			{"total_sessions", strconv.Itoa(status.TotalSessions)},
			{"total_users", strconv.Itoa(status.TotalUsers)},
			{"oldest_session_time", formatTime(status.OldestSessionTime)},
			{"latest_session_time", formatTime(status.LatestSessionTime)},
			{"stale_signatures", strconv.Itoa(status.StaleSignatures)},
		}
		tables := make([]string, 0, len(status.TableSizes))
		for name := range status.TableSizes {
			tables = append(tables, name)
		}
		slices.Sort(tables)
		for _, name := range tables {
			rows = append(rows, []string{"table_rows." + name, strconv.FormatInt(status.TableSizes[name], 10)})
		}
		return cw.WriteAll(rows)
	})
}
