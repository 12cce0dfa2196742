// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/plugcheck/plugcheck/internal/contract"
)

// NewMCPServer initializes and configures the plugcheck MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, runner contract.CommandRunner, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Plugin Quality Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		runner:  runner,
		mgr:     mgr,
	}

	// --- 1. Tool: validate_plugin ---
	s.AddTool(mcp.NewTool("validate_plugin",
		mcp.WithDescription("Run quality checks against a plugin package and return the scored report."),
		mcp.WithString("plugin_path", mcp.Description("Path to the plugin package directory."), mcp.Required()),
		mcp.WithString("checks", mcp.Description("Comma-separated check names, or 'all'. Defaults to all checks.")),
		mcp.WithBoolean("functional", mcp.Description("Execute the package's own test and coverage scripts.")),
	), h.handleValidatePlugin)

	// --- 2. Tool: audit_plugin ---
	s.AddTool(mcp.NewTool("audit_plugin",
		mcp.WithDescription("Run the full audit pipeline (validation, lint, format, tests, coverage) and return the health report."),
		mcp.WithString("plugin_path", mcp.Description("Path to the plugin package directory."), mcp.Required()),
		mcp.WithBoolean("fix", mcp.Description("Apply the package's own autofix scripts before auditing.")),
	), h.handleAuditPlugin)

	return s
}

// StartMCPServer starts the plugcheck MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, runner contract.CommandRunner, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, runner, mgr)
	return server.ServeStdio(s)
}
