// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/teampulse/internal/contract"
)

// windowOption is shared by every tool.
var windowOption = mcp.WithNumber("window_days",
	mcp.Description("Analysis window in days (1-365). Defaults to the configured window."))

// NewMCPServer initializes and configures the TeamPulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(svc contract.HealthService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"TeamPulse Health Server",
		version,
		server.WithLogging(),
		server.WithRecovery(),
	)

	h := &toolHandler{svc: svc}

	s.AddTool(mcp.NewTool("engineer_health",
		mcp.WithDescription("Score one engineer across code quality, knowledge sharing, velocity and collaboration, with alerts."),
		mcp.WithString("engineer", mcp.Description("Engineer name, email or alias as configured."), mcp.Required()),
		windowOption,
	), h.handleEngineerHealth)

	s.AddTool(mcp.NewTool("team_insights",
		mcp.WithDescription("Score the whole team and derive at-risk engineers, training groups and mentoring pairs."),
		windowOption,
	), h.handleTeamInsights)

	s.AddTool(mcp.NewTool("daily_summary",
		mcp.WithDescription("Condense team health into critical, warning and improving engineers plus focus areas."),
		windowOption,
	), h.handleDailySummary)

	s.AddTool(mcp.NewTool("training_recommendations",
		mcp.WithDescription("Group engineers who share a weak category into training sessions."),
		mcp.WithString("urgency", mcp.Description("Only return sessions of this urgency."), mcp.Enum("high", "medium", "low")),
		windowOption,
	), h.handleTrainingRecommendations)

	s.AddTool(mcp.NewTool("find_mentors",
		mcp.WithDescription("Pair engineers needing support with strong mentors in their weakest categories."),
		mcp.WithString("mentee", mcp.Description("Only return the pair for this engineer.")),
		windowOption,
	), h.handleFindMentors)

	return s
}

// StartMCPServer serves the tools over stdio until the input closes.
func StartMCPServer(_ context.Context, svc contract.HealthService, version string) error {
	return server.ServeStdio(NewMCPServer(svc, version))
}
