package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albanecoiffe/health-data-coach/schema"
)

func TestGetPlainRiskLabel(t *testing.T) {
	tests := []struct {
		level    schema.RiskLevel
		expected string
	}{
		{schema.LowRisk, "Low"},
		{schema.ModerateRisk, "Moderate"},
		{schema.HighRisk, "High"},
		{"", "Low"},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainRiskLabel(tt.level))
			assert.Contains(t, GetColorRiskLabel(tt.level), tt.expected)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePath(t *testing.T) {
	assert.Equal(t, ".coach.db", filepath.Base(GetDBFilePath()))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("perhaps")
	assert.Error(t, err)
}

func TestParseRelativeTime(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		input string
		want  time.Time
	}{
		{"1 day ago", time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)},
		{"2 weeks ago", time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)},
		{"3 months ago", time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)},
		{"1 year ago", time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)},
		{"  2 Weeks Ago ", time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseRelativeTime(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"yesterday", "2 hours ago", "weeks ago", "-1 day ago"} {
		_, err := parseRelativeTime(bad, now)
		assert.Error(t, err, bad)
	}
}
