package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	svc     *core.Service
}

// userID resolves the user of a tool call.
func (h *toolHandler) userID(request mcp.CallToolRequest) (string, error) {
	raw := request.GetString("user_id", "")
	if raw == "" {
		return h.baseCfg.UserID, nil
	}
	return contract.ParseUserID(raw)
}

// jsonResult renders v as the text content of a tool result.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetWeeks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := h.userID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	weeks, err := h.svc.Weeks(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing weeks failed: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 && l < len(weeks) {
		weeks = weeks[len(weeks)-l:]
	}
	return jsonResult(weeks), nil
}

func (h *toolHandler) handleGetSignature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := h.userID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sig, cached, err := h.svc.Signature(ctx, userID, request.GetBool("refresh", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("signature failed: %v", err)), nil
	}
	return jsonResult(map[string]any{"cached": cached, "signature": sig}), nil
}

func (h *toolHandler) handleGetRecommendation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := h.userID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := h.svc.Recommend(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}
	return jsonResult(rec), nil
}

func (h *toolHandler) handleIngestCSV(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	userID, err := h.userID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := h.svc.IngestFile(ctx, userID, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", err)), nil
	}
	return jsonResult(summary), nil
}
