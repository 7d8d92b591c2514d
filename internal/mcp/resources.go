// ABOUTME: MCP resource implementations for wellness data.
// ABOUTME: Provides wellsync://insights and wellsync://recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	insightsURI = "wellsync://insights"
	recentURI   = "wellsync://recent"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         insightsURI,
		Name:        "Wellness Insights",
		Description: "Trends, correlations, and summaries over the configured window",
		MIMEType:    "application/json",
	}, s.handleInsightsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Wellness Logs",
		Description: "Check-ins, workouts, and meals from the last 7 days",
		MIMEType:    "application/json",
	}, s.handleRecentResource)
}

func (s *Server) handleInsightsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	report, err := s.svc.Report(ctx, s.userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to build insights: %w", err)
	}
	return jsonResource(insightsURI, report)
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := s.svc.Today()
	from := today.AddDays(-6)

	checkIns, err := s.reader.GetCheckIns(ctx, s.userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	workouts, err := s.reader.GetWorkouts(ctx, s.userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	meals, err := s.reader.GetMeals(ctx, s.userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	return jsonResource(recentURI, map[string]interface{}{
		"from":     from.String(),
		"to":       today.String(),
		"checkins": checkIns,
		"workouts": workouts,
		"meals":    meals,
		"counts": map[string]int{
			"checkins": len(checkIns),
			"workouts": len(workouts),
			"meals":    len(meals),
		},
	})
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
