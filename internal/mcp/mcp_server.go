// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the heatmap MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, fetcher contract.RecordFetcher, src contract.SubmissionSource) *server.MCPServer {
	s := server.NewMCPServer(
		"codePost Heatmap Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		fetcher: fetcher,
		src:     src,
	}

	axes := schema.AxisNames()

	// --- 1. Tool: build_heatmap ---
	s.AddTool(mcp.NewTool("build_heatmap",
		mcp.WithDescription("Count the rubric comments of a codePost assignment, cross-tabulated by two axes (graders by rubric comment by default)."),
		mcp.WithNumber("assignment_id", mcp.Description("codePost assignment id."), mcp.Required()),
		mcp.WithString("x_axis", mcp.Description("Row axis. Defaults to 'graders'."), mcp.Enum(axes...)),
		mcp.WithString("y_axis", mcp.Description("Column axis; must yield one key per comment. Defaults to 'rubricComments'."), mcp.Enum(axes...)),
		mcp.WithBoolean("refresh", mcp.Description("Ignore cached records and fetch the assignment again.")),
		mcp.WithBoolean("strip_qualifier", mcp.Description("Cut grader row labels at the first '@'. Defaults to the server setting.")),
	), h.handleBuildHeatmap)

	// --- 2. Tool: list_axes ---
	s.AddTool(mcp.NewTool("list_axes",
		mcp.WithDescription("List the axis selectors a heatmap can be built on, with their captions."),
	), h.handleListAxes)

	// --- 3. Tool: average_grade ---
	s.AddTool(mcp.NewTool("average_grade",
		mcp.WithDescription("Average grade over the graded submissions of a codePost assignment."),
		mcp.WithNumber("assignment_id", mcp.Description("codePost assignment id."), mcp.Required()),
	), h.handleAverageGrade)

	return s
}

// StartMCPServer starts the heatmap MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, fetcher contract.RecordFetcher, src contract.SubmissionSource) error {
	s := NewMCPServer(baseCfg, mgr, fetcher, src)
	return server.ServeStdio(s)
}
