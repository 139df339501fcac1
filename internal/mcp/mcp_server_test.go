package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/internal/ingest"
	"github.com/albanecoiffe/health-data-coach/internal/iocache"
	mcp_internal "github.com/albanecoiffe/health-data-coach/internal/mcp"
	"github.com/albanecoiffe/health-data-coach/internal/models"
	"github.com/albanecoiffe/health-data-coach/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "3f1c2a8e-9b7d-4c1e-8a2f-6d5e4c3b2a10"

// Wednesday of ISO week 2025-W42
var fixedNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *server.MCPServer {
	t.Helper()
	stores, err := iocache.NewStores(schema.NoneBackend, "")
	require.NoError(t, err)
	bundle, err := models.Default()
	require.NoError(t, err)
	svc := core.NewService(stores, bundle, core.WithClock(func() time.Time { return fixedNow }))
	return mcp_internal.NewMCPServer(&contract.Config{UserID: testUser}, svc)
}

// writeExport writes three easy runs per week for the ten weeks before fixedNow.
func writeExport(t *testing.T) string {
	t.Helper()
	lines := []string{strings.Join(ingest.Header, ",")}
	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	for k := 10; k >= 1; k-- {
		for _, day := range []int{1, 3, 5} {
			start := monday.AddDate(0, 0, -7*k+day).Add(7 * time.Hour)
			lines = append(lines, fmt.Sprintf("%s,8.3,53,145,0,49,0,4,0,60,520", start.Format(time.RFC3339)))
		}
	}
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerTools(t *testing.T) {
	s := newTestServer(t)

	res := callTool(t, s, "ingest_csv", map[string]any{"path": writeExport(t)})
	require.False(t, res.IsError, resultText(res))
	var summary schema.IngestSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &summary))
	assert.Equal(t, schema.IngestSummary{UserID: testUser, Source: "export.csv", Read: 30, Inserted: 30, Weeks: 10}, summary)

	t.Run("get_weeks", func(t *testing.T) {
		res := callTool(t, s, "get_weeks", map[string]any{"limit": 4.0})
		require.False(t, res.IsError, resultText(res))
		var weeks []schema.WeekAggregate
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &weeks))
		require.Len(t, weeks, 4)
		assert.Equal(t, 41, weeks[3].Week)
		assert.Equal(t, 3, weeks[3].Sessions)
	})

	t.Run("get_signature", func(t *testing.T) {
		res := callTool(t, s, "get_signature", map[string]any{"user_id": strings.ToUpper(testUser)})
		require.False(t, res.IsError, resultText(res))
		var out struct {
			Cached    bool                   `json:"cached"`
			Signature schema.RunnerSignature `json:"signature"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.False(t, out.Cached)
		assert.InDelta(t, 24.9, out.Signature.Volume.WeeklyAvgKm, 1e-9)

		res = callTool(t, s, "get_signature", nil)
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.True(t, out.Cached)

		res = callTool(t, s, "get_signature", map[string]any{"refresh": true})
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.False(t, out.Cached)
	})

	t.Run("get_recommendation", func(t *testing.T) {
		res := callTool(t, s, "get_recommendation", nil)
		require.False(t, res.IsError, resultText(res))
		var rec schema.WeekRecommendation
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &rec))
		assert.Equal(t, 3, rec.TargetSessions)
		assert.Len(t, rec.RemainingSessions, 3)
	})
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	t.Run("ingest_csv missing path", func(t *testing.T) {
		res := callTool(t, s, "ingest_csv", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), "path is required")
	})

	t.Run("ingest_csv unreadable file", func(t *testing.T) {
		res := callTool(t, s, "ingest_csv", map[string]any{"path": filepath.Join(t.TempDir(), "missing.csv")})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "ingest failed")
	})

	t.Run("invalid user id", func(t *testing.T) {
		res := callTool(t, s, "get_weeks", map[string]any{"user_id": "not-a-uuid"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid user id")
	})

	t.Run("signature without history", func(t *testing.T) {
		res := callTool(t, s, "get_signature", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "insufficient history")
	})

	t.Run("recommendation without history", func(t *testing.T) {
		res := callTool(t, s, "get_recommendation", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "insufficient history")
	})
}
