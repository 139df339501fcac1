package iocache

import (
	"fmt"
	"slices"

	"github.com/albanecoiffe/health-data-coach/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Sessions: %d\n", status.TotalSessions)
	fmt.Printf("Total Users: %d\n", status.TotalUsers)
	if status.TotalSessions > 0 {
		fmt.Printf("Latest Session: %s\n", status.LatestSessionTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Session: %s\n", status.OldestSessionTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Stale Signatures: %d\n", status.StaleSignatures)
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
