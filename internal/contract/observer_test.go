package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albanecoiffe/health-data-coach/schema"
)

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(NewLogger(&buf, slog.LevelInfo, schema.JSONLog))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "recommend",
		Duration: 15 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"user_id": "u1"},
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "coach_use_case", entry["msg"])
	assert.Equal(t, "recommend", entry["use_case"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, true, entry["success"])
}

func TestLogUseCaseObserverError(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(NewLogger(&buf, slog.LevelInfo, schema.TextLog))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "signature", Err: errors.New("boom")})

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestObserverOrNoop(t *testing.T) {
	assert.Equal(t, NoopUseCaseObserver{}, ObserverOrNoop())
	assert.Equal(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))

	obs := NewLogUseCaseObserver(slog.Default())
	assert.Equal(t, obs, ObserverOrNoop(nil, obs))
}
