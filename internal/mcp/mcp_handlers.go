package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cpheatmap/cpheatmap/core"
	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/internal/outwriter"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	fetcher contract.RecordFetcher
	src     contract.SubmissionSource
}

func (h *toolHandler) handleBuildHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	id := request.GetInt("assignment_id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("assignment_id must be a positive integer"), nil
	}
	cfg.AssignmentID = int64(id)

	if x := request.GetString("x_axis", ""); x != "" {
		axis, err := schema.ParseAxis(x)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid x_axis: %v", err)), nil
		}
		cfg.XAxis = axis
	}
	if y := request.GetString("y_axis", ""); y != "" {
		axis, err := schema.ParseAxis(y)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid y_axis: %v", err)), nil
		}
		cfg.YAxis = axis
	}
	cfg.Refresh = request.GetBool("refresh", cfg.Refresh)
	cfg.StripQualifier = request.GetBool("strip_qualifier", cfg.StripQualifier)

	dense, meta, err := core.GetHeatmapResults(core.WithSuppressHeader(ctx), cfg, h.mgr, h.fetcher)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("heatmap failed: %v", err)), nil
	}

	doc := outwriter.NewHeatmapDocument(dense, cfg, meta)
	jsonData, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListAxes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(outwriter.AxisInfos(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAverageGrade(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("assignment_id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("assignment_id must be a positive integer"), nil
	}
	if h.src == nil {
		return mcp.NewToolResultError("no submission source configured"), nil
	}

	summary, err := core.GetGradeSummary(ctx, int64(id), h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("average grade failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
