// Package outwriter renders coach results as tables, CSV or JSON.
package outwriter

import (
	"os"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// wideTableWidth is the terminal width from which range columns are shown.
const wideTableWidth = 110

// GetTableWidth returns the width available for table output, honoring the
// --width override before probing the terminal.
func GetTableWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Conservative default for narrow terminals and CI
		return 80
	}
	return detectedWidth
}

// isWide reports whether the table has room for the optional columns.
func isWide(cfg *contract.Config) bool {
	return GetTableWidth(cfg) >= wideTableWidth
}

// colorize paints s when colors are enabled.
func colorize(useColors bool, c *color.Color, s string) string {
	if !useColors {
		return s
	}
	return c.Sprint(s)
}

// riskLabel returns the display label of a risk level.
func riskLabel(useColors bool, level schema.RiskLevel) string {
	if useColors {
		return contract.GetColorRiskLabel(level)
	}
	return contract.GetPlainRiskLabel(level)
}
