// main is the entry point of the coach CLI.
package main

import (
	"github.com/albanecoiffe/health-data-coach/cmd"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error", err)
	}
}
