package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/burndown/core"
	"github.com/huangsam/burndown/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applyAsOf overrides the workday cutoff when the request names one.
func applyAsOf(cfg *contract.Config, request mcp.CallToolRequest) error {
	s := request.GetString("as_of", "")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := contract.ParseDate(s, time.Now())
	if err != nil {
		return fmt.Errorf("invalid as_of: %w", err)
	}
	cfg.AsOf = t
	return nil
}

// applyForecast overrides the forecast window and horizon when the request sets them.
func applyForecast(cfg *contract.Config, request mcp.CallToolRequest) error {
	if w := request.GetInt("window", 0); w != 0 {
		if w < 1 {
			return fmt.Errorf("window must be at least 1 (received %d)", w)
		}
		cfg.ForecastWindow = w
	}
	if h := request.GetInt("horizon", 0); h != 0 {
		if h < 1 {
			return fmt.Errorf("horizon must be at least 1 (received %d)", h)
		}
		cfg.ForecastHorizon = h
	}
	return nil
}

func (h *toolHandler) handleGetReleaseBurndown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.ReleaseID = strings.TrimSpace(request.GetString("release_id", ""))
	if cfg.ReleaseID == "" {
		return mcp.NewToolResultError("release_id is required"), nil
	}
	cfg.Refresh = request.GetBool("refresh", false)
	if err := applyAsOf(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := applyForecast(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid forecast parameters: %v", err)), nil
	}

	result, _, err := core.GetBurndownResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("burndown failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListReleases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyAsOf(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summaries, _, err := core.GetReleaseSummaries(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing releases failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
