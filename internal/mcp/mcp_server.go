// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/albanecoiffe/health-data-coach/core"
	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the coach MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, svc *core.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Running Coach Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		svc:     svc,
	}

	userParam := mcp.WithString("user_id", mcp.Description("UUID of the runner (defaults to the configured user)."))

	// --- 1. Tool: get_weeks ---
	s.AddTool(mcp.NewTool("get_weeks",
		mcp.WithDescription("List the weekly training aggregates of a runner in chronological order."),
		userParam,
		mcp.WithNumber("limit", mcp.Description("Only return the most recent weeks.")),
	), h.handleGetWeeks)

	// --- 2. Tool: get_signature ---
	s.AddTool(mcp.NewTool("get_signature",
		mcp.WithDescription("Get the long-term runner signature computed over the trailing 52 weeks."),
		userParam,
		mcp.WithBoolean("refresh", mcp.Description("Recompute the signature even when a stored one is still valid.")),
	), h.handleGetSignature)

	// --- 3. Tool: get_recommendation ---
	s.AddTool(mcp.NewTool("get_recommendation",
		mcp.WithDescription("Recommend the remaining sessions of the current ISO week, adjusted for overload risk."),
		userParam,
	), h.handleGetRecommendation)

	// --- 4. Tool: ingest_csv ---
	s.AddTool(mcp.NewTool("ingest_csv",
		mcp.WithDescription("Import a CSV export of running sessions."),
		mcp.WithString("path", mcp.Description("Path to the CSV file."), mcp.Required()),
		userParam,
	), h.handleIngestCSV)

	return s
}

// StartMCPServer starts the coach MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, svc *core.Service) error {
	s := NewMCPServer(baseCfg, svc)
	return server.ServeStdio(s)
}
