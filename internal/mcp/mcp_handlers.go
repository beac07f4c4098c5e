package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/teampulse/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	svc contract.HealthService
}

// jsonResult renders a value as indented JSON text, or a tool error when the call failed.
func jsonResult(action string, v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", action, err)), nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding %s result: %v", action, err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *toolHandler) handleEngineerHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("engineer")
	if err != nil || name == "" {
		return mcp.NewToolResultError("engineer is required"), nil
	}
	report, err := h.svc.EngineerHealth(ctx, name, request.GetInt("window_days", 0))
	return jsonResult("engineer health", report, err)
}

func (h *toolHandler) handleTeamInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	insights, err := h.svc.TeamInsights(ctx, request.GetInt("window_days", 0))
	return jsonResult("team insights", insights, err)
}

func (h *toolHandler) handleDailySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.svc.DailySummary(ctx, request.GetInt("window_days", 0))
	return jsonResult("daily summary", summary, err)
}

func (h *toolHandler) handleTrainingRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := h.svc.TrainingRecommendations(ctx, request.GetString("urgency", ""), request.GetInt("window_days", 0))
	return jsonResult("training recommendations", recs, err)
}

func (h *toolHandler) handleFindMentors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pairs, err := h.svc.FindMentors(ctx, request.GetString("mentee", ""), request.GetInt("window_days", 0))
	return jsonResult("mentor search", pairs, err)
}
