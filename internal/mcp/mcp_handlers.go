package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/plugcheck/plugcheck/core"
	"github.com/plugcheck/plugcheck/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	runner  contract.CommandRunner
	mgr     contract.HistoryManager
}

func (h *toolHandler) handleValidatePlugin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	path := request.GetString("plugin_path", "")
	if path == "" {
		return mcp.NewToolResultError("plugin_path is required"), nil
	}
	cfg.PluginPath = path

	if raw := request.GetString("checks", ""); raw != "" {
		checks, err := contract.ParseCheckList(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid checks: %v", err)), nil
		}
		cfg.Checks = checks
	}
	cfg.Functional = request.GetBool("functional", cfg.Functional)

	report, err := core.ExecuteValidation(ctx, cfg, h.runner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAuditPlugin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	path := request.GetString("plugin_path", "")
	if path == "" {
		return mcp.NewToolResultError("plugin_path is required"), nil
	}
	cfg.PluginPath = path
	cfg.Fix = request.GetBool("fix", cfg.Fix)

	report, err := core.ExecuteAudit(ctx, cfg, h.runner, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("audit failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
