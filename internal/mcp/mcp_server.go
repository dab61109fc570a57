// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the burndown MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Burndown Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_release_burndown ---
	s.AddTool(mcp.NewTool("get_release_burndown",
		mcp.WithDescription("Compute the burndown chart series of a release: per-sprint backlog, added and closed story points plus a trailing-average forecast."),
		mcp.WithString("release_id", mcp.Description("Id of the release, as shown by list_releases."), mcp.Required()),
		mcp.WithBoolean("refresh", mcp.Description("Recompute instead of reusing a cached burndown.")),
		mcp.WithString("as_of", mcp.Description("Cutoff for the workday count (YYYY-MM-DD, 'today' or 'N days ago'). Defaults to the release end.")),
		mcp.WithNumber("window", mcp.Description("Number of trailing sprints averaged by the forecast.")),
		mcp.WithNumber("horizon", mcp.Description("Number of slots projected forward by the forecast.")),
	), h.handleGetReleaseBurndown)

	// --- 2. Tool: list_releases ---
	s.AddTool(mcp.NewTool("list_releases",
		mcp.WithDescription("List the releases in the data store with their closed sprint count and workdays."),
		mcp.WithString("as_of", mcp.Description("Cutoff for the workday count. Defaults to each release end.")),
	), h.handleListReleases)

	return s
}

// StartMCPServer starts the burndown MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
