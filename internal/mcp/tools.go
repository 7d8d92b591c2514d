// ABOUTME: MCP tool implementations for check-ins, workouts, meals, and insights.
// ABOUTME: Every write goes through the invalidating writer.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/wellsync/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_checkin",
		Description: "Log today's (or a given day's) sleep, mood, energy, and stress and get a readiness score",
	}, s.handleLogCheckIn)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_workout",
		Description: "Log a workout session with duration and perceived exertion (RPE 1-10)",
	}, s.handleLogWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_meal",
		Description: "Log a meal with a quality rating (1-5)",
	}, s.handleLogMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_readiness",
		Description: "Get the readiness score and workout recommendation for a day with a check-in",
	}, s.handleGetReadiness)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_insights",
		Description: "Get trends, correlations, and workout and meal summaries over a window of days",
	}, s.handleGetInsights)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_checkins",
		Description: "List check-ins from the last N days",
	}, s.handleListCheckIns)
}

// Tool input/output types

type logCheckInInput struct {
	Date         string  `json:"date,omitempty" jsonschema:"Day of the check-in (YYYY-MM-DD), defaults to today"`
	SleepHours   float64 `json:"sleep_hours" jsonschema:"Hours slept (0-12)"`
	SleepQuality int     `json:"sleep_quality" jsonschema:"Sleep quality (1-5)"`
	Mood         int     `json:"mood" jsonschema:"Mood (1-5)"`
	Energy       int     `json:"energy" jsonschema:"Energy (1-5)"`
	Stress       int     `json:"stress" jsonschema:"Stress (1-5, higher is more stressed)"`
}

type readinessOutput struct {
	Date           string  `json:"date"`
	Score          float64 `json:"score"`
	Intensity      string  `json:"intensity"`
	Recommendation string  `json:"recommendation"`
	Source         string  `json:"source"`
}

type logWorkoutInput struct {
	Date        string `json:"date,omitempty" jsonschema:"Day of the workout (YYYY-MM-DD), defaults to today"`
	Type        string `json:"type" jsonschema:"Workout type (run, walk, cycle, swim, strength, yoga, hiit, sport, other)"`
	DurationMin int    `json:"duration_min" jsonschema:"Duration in minutes (1-600)"`
	RPE         int    `json:"rpe" jsonschema:"Rate of perceived exertion (1-10)"`
	Notes       string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type logMealInput struct {
	Date     string `json:"date,omitempty" jsonschema:"Day of the meal (YYYY-MM-DD), defaults to today"`
	MealType string `json:"meal_type" jsonschema:"Meal type (breakfast, lunch, dinner, snack)"`
	Quality  int    `json:"quality" jsonschema:"Meal quality (1-5)"`
	Notes    string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type entryOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type getReadinessInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day to score (YYYY-MM-DD), defaults to today"`
}

type getInsightsInput struct {
	Window int `json:"window,omitempty" jsonschema:"Window in days, defaults to the configured window"`
}

type listCheckInsInput struct {
	Days int `json:"days,omitempty" jsonschema:"How many days back to list (default 14)"`
}

// Tool handlers

func (s *Server) handleLogCheckIn(ctx context.Context, req *mcp.CallToolRequest, input logCheckInInput) (*mcp.CallToolResult, readinessOutput, error) {
	date, err := s.parseDate(input.Date)
	if err != nil {
		return nil, readinessOutput{}, err
	}

	c := models.NewCheckIn(date, input.SleepHours, input.SleepQuality, input.Mood, input.Energy, input.Stress).ForUser(s.userID)
	res, err := s.svc.SubmitCheckIn(ctx, c)
	if err != nil {
		return nil, readinessOutput{}, fmt.Errorf("failed to log check-in: %w", err)
	}
	return nil, toReadinessOutput(res), nil
}

func (s *Server) handleLogWorkout(ctx context.Context, req *mcp.CallToolRequest, input logWorkoutInput) (*mcp.CallToolResult, entryOutput, error) {
	date, err := s.parseDate(input.Date)
	if err != nil {
		return nil, entryOutput{}, err
	}

	w := models.NewWorkout(date, models.WorkoutType(input.Type), input.DurationMin, input.RPE).ForUser(s.userID)
	if input.Notes != "" {
		w.WithNotes(input.Notes)
	}
	if err := s.svc.Writer.CreateWorkout(ctx, w); err != nil {
		return nil, entryOutput{}, fmt.Errorf("failed to log workout: %w", err)
	}

	id := w.ID.String()[:8]
	return nil, entryOutput{
		ID:      id,
		Message: fmt.Sprintf("Logged %d min %s on %s at RPE %d (ID: %s)", w.DurationMin, w.Type, w.Date, w.RPE, id),
	}, nil
}

func (s *Server) handleLogMeal(ctx context.Context, req *mcp.CallToolRequest, input logMealInput) (*mcp.CallToolResult, entryOutput, error) {
	date, err := s.parseDate(input.Date)
	if err != nil {
		return nil, entryOutput{}, err
	}

	m := models.NewMeal(date, models.MealType(input.MealType), input.Quality).ForUser(s.userID)
	if input.Notes != "" {
		m.WithNotes(input.Notes)
	}
	if err := s.svc.Writer.CreateMeal(ctx, m); err != nil {
		return nil, entryOutput{}, fmt.Errorf("failed to log meal: %w", err)
	}

	id := m.ID.String()[:8]
	return nil, entryOutput{
		ID:      id,
		Message: fmt.Sprintf("Logged %s on %s with quality %d (ID: %s)", m.MealType, m.Date, m.Quality, id),
	}, nil
}

func (s *Server) handleGetReadiness(ctx context.Context, req *mcp.CallToolRequest, input getReadinessInput) (*mcp.CallToolResult, readinessOutput, error) {
	date, err := s.parseDate(input.Date)
	if err != nil {
		return nil, readinessOutput{}, err
	}

	res, err := s.svc.Readiness(ctx, s.userID, date)
	if err != nil {
		return nil, readinessOutput{}, fmt.Errorf("failed to get readiness: %w", err)
	}
	return nil, toReadinessOutput(res), nil
}

func (s *Server) handleGetInsights(ctx context.Context, req *mcp.CallToolRequest, input getInsightsInput) (*mcp.CallToolResult, any, error) {
	if input.Window < 0 {
		return nil, nil, fmt.Errorf("window must be positive")
	}
	report, err := s.svc.Report(ctx, s.userID, input.Window)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build insights: %w", err)
	}
	return nil, report, nil
}

func (s *Server) handleListCheckIns(ctx context.Context, req *mcp.CallToolRequest, input listCheckInsInput) (*mcp.CallToolResult, any, error) {
	if input.Days <= 0 {
		input.Days = 14
	}

	today := s.svc.Today()
	checkIns, err := s.reader.GetCheckIns(ctx, s.userID, today.AddDays(-(input.Days-1)), today)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list check-ins: %w", err)
	}

	if len(checkIns) == 0 {
		return nil, map[string]interface{}{"message": "No check-ins found."}, nil
	}

	return nil, checkIns, nil
}

func (s *Server) parseDate(raw string) (models.Date, error) {
	if raw == "" || raw == "today" {
		return s.svc.Today(), nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return d, nil
}

func toReadinessOutput(r models.ReadinessResult) readinessOutput {
	return readinessOutput{
		Date:           r.Date.String(),
		Score:          r.Score,
		Intensity:      string(r.Intensity),
		Recommendation: r.Recommendation,
		Source:         string(r.Source),
	}
}
