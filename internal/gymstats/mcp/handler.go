package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitdash/internal/gymstats/exercises"
	"github.com/2beens/fitdash/internal/gymstats/workouts"
	"github.com/2beens/fitdash/internal/sleep"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/weight"
	"github.com/2beens/fitdash/pkg"
)

const (
	ToolGetSchema           = "get_fitdash_schema"
	ToolListWorkouts        = "list_workouts"
	ToolGetWorkout          = "get_workout"
	ToolGetVolumeOverTime   = "get_volume_over_time"
	ToolListExercises       = "list_exercises"
	ToolGetExerciseHistory  = "get_exercise_history"
	ToolGetExerciseProgress = "get_exercise_progress"
	ToolGetSleepLogs        = "get_sleep_logs"
	ToolGetWeightLogs       = "get_weight_logs"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service        contextService
	metricsManager *metrics.Manager
}

func NewHandler(service contextService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

func (h *Handler) errorResult(tool, text string) (*mcp.CallToolResult, any, error) {
	h.metricsManager.CounterMCPToolCalls.WithLabelValues(tool, "error").Inc()
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}

// fetchErrorResult reports missing rows as plain messages, anything else with the error text.
func (h *Handler) fetchErrorResult(tool, prefix string, err error) (*mcp.CallToolResult, any, error) {
	switch {
	case errors.Is(err, workouts.ErrWorkoutNotFound):
		return h.errorResult(tool, "Workout not found")
	case errors.Is(err, exercises.ErrExerciseNotFound):
		return h.errorResult(tool, "Exercise not found")
	}
	log.Errorf("mcp tool %s: %s", tool, err)
	return h.errorResult(tool, prefix+err.Error())
}

func (h *Handler) jsonResult(tool string, v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return h.errorResult(tool, "Error encoding response: "+err.Error())
	}
	h.metricsManager.CounterMCPToolCalls.WithLabelValues(tool, "ok").Inc()
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

// GetSchemaTool returns the MCP tool handler for get_fitdash_schema.
func (h *Handler) GetSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return h.fetchErrorResult(ToolGetSchema, "Error fetching schema: ", err)
		}
		h.metricsManager.CounterMCPToolCalls.WithLabelValues(ToolGetSchema, "ok").Inc()
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// ListWorkoutsInput is the input for list_workouts.
type ListWorkoutsInput struct {
	Limit     int    `json:"limit,omitempty" jsonschema:"Max workouts to return (default 20, max 100)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"Number of workouts to skip"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Earliest workout day, inclusive (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"Latest workout day, inclusive (YYYY-MM-DD)"`
}

// ListWorkoutsTool returns the MCP tool handler for list_workouts.
func (h *Handler) ListWorkoutsTool() func(context.Context, *mcp.CallToolRequest, ListWorkoutsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ListWorkoutsInput) (*mcp.CallToolResult, any, error) {
		dateRange, err := pkg.ParseDateRange(in.StartDate, in.EndDate)
		if err != nil {
			return h.errorResult(ToolListWorkouts, "Invalid date range: use YYYY-MM-DD")
		}
		resp, err := h.service.ListWorkouts(ctx, workouts.ListParams{
			Limit:     in.Limit,
			Offset:    in.Offset,
			DateRange: dateRange,
		})
		if err != nil {
			if errors.Is(err, ErrNegativeOffset) {
				return h.errorResult(ToolListWorkouts, "Invalid offset: "+err.Error())
			}
			return h.fetchErrorResult(ToolListWorkouts, "Error listing workouts: ", err)
		}
		return h.jsonResult(ToolListWorkouts, resp)
	}
}

// GetWorkoutInput is the input for get_workout.
type GetWorkoutInput struct {
	WorkoutID int `json:"workout_id" jsonschema:"Workout id (from list_workouts)"`
}

// GetWorkoutTool returns the MCP tool handler for get_workout.
func (h *Handler) GetWorkoutTool() func(context.Context, *mcp.CallToolRequest, GetWorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GetWorkoutInput) (*mcp.CallToolResult, any, error) {
		detail, err := h.service.GetWorkout(ctx, in.WorkoutID)
		if err != nil {
			return h.fetchErrorResult(ToolGetWorkout, "Error fetching workout: ", err)
		}
		return h.jsonResult(ToolGetWorkout, detail)
	}
}

// VolumeOverTimeInput is the input for get_volume_over_time.
type VolumeOverTimeInput struct {
	Days    int    `json:"days,omitempty" jsonschema:"Trailing window in days (default 30, max 365)"`
	GroupBy string `json:"group_by,omitempty" jsonschema:"Bucket size: day, week (default) or month"`
}

// GetVolumeOverTimeTool returns the MCP tool handler for get_volume_over_time.
func (h *Handler) GetVolumeOverTimeTool() func(context.Context, *mcp.CallToolRequest, VolumeOverTimeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in VolumeOverTimeInput) (*mcp.CallToolResult, any, error) {
		groupBy, err := workouts.ParseGroupBy(in.GroupBy)
		if err != nil {
			return h.errorResult(ToolGetVolumeOverTime, "Invalid group_by: use day, week or month")
		}
		resp, err := h.service.GetVolumeOverTime(ctx, in.Days, groupBy)
		if err != nil {
			return h.fetchErrorResult(ToolGetVolumeOverTime, "Error fetching volume: ", err)
		}
		return h.jsonResult(ToolGetVolumeOverTime, resp)
	}
}

// ListExercisesTool returns the MCP tool handler for list_exercises.
func (h *Handler) ListExercisesTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		resp, err := h.service.ListExercises(ctx)
		if err != nil {
			return h.fetchErrorResult(ToolListExercises, "Error listing exercises: ", err)
		}
		return h.jsonResult(ToolListExercises, resp)
	}
}

// ExerciseHistoryInput is the input for get_exercise_history.
type ExerciseHistoryInput struct {
	ExerciseID int `json:"exercise_id" jsonschema:"Exercise id (from list_exercises)"`
	Limit      int `json:"limit,omitempty" jsonschema:"Max workouts to return (default 50, max 100)"`
}

// GetExerciseHistoryTool returns the MCP tool handler for get_exercise_history.
func (h *Handler) GetExerciseHistoryTool() func(context.Context, *mcp.CallToolRequest, ExerciseHistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseHistoryInput) (*mcp.CallToolResult, any, error) {
		resp, err := h.service.GetExerciseHistory(ctx, in.ExerciseID, in.Limit)
		if err != nil {
			return h.fetchErrorResult(ToolGetExerciseHistory, "Error fetching exercise history: ", err)
		}
		return h.jsonResult(ToolGetExerciseHistory, resp)
	}
}

// ExerciseProgressInput is the input for get_exercise_progress.
type ExerciseProgressInput struct {
	ExerciseID int    `json:"exercise_id" jsonschema:"Exercise id (from list_exercises)"`
	Metric     string `json:"metric,omitempty" jsonschema:"max_weight (default), total_volume or max_reps"`
	Days       int    `json:"days,omitempty" jsonschema:"Trailing window in days (default 90, max 365)"`
}

// GetExerciseProgressTool returns the MCP tool handler for get_exercise_progress.
func (h *Handler) GetExerciseProgressTool() func(context.Context, *mcp.CallToolRequest, ExerciseProgressInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseProgressInput) (*mcp.CallToolResult, any, error) {
		metric, err := exercises.ParseMetric(in.Metric)
		if err != nil {
			return h.errorResult(ToolGetExerciseProgress, "Invalid metric: use max_weight, total_volume or max_reps")
		}
		resp, err := h.service.GetExerciseProgress(ctx, in.ExerciseID, metric, in.Days)
		if err != nil {
			return h.fetchErrorResult(ToolGetExerciseProgress, "Error fetching exercise progress: ", err)
		}
		return h.jsonResult(ToolGetExerciseProgress, resp)
	}
}

// LogsInput is the input for get_sleep_logs and get_weight_logs.
type LogsInput struct {
	Limit     int    `json:"limit,omitempty" jsonschema:"Max logs to return (default 30, max 365)"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Earliest log day, inclusive (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"Latest log day, inclusive (YYYY-MM-DD)"`
}

// GetSleepLogsTool returns the MCP tool handler for get_sleep_logs.
func (h *Handler) GetSleepLogsTool() func(context.Context, *mcp.CallToolRequest, LogsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogsInput) (*mcp.CallToolResult, any, error) {
		dateRange, err := pkg.ParseDateRange(in.StartDate, in.EndDate)
		if err != nil {
			return h.errorResult(ToolGetSleepLogs, "Invalid date range: use YYYY-MM-DD")
		}
		resp, err := h.service.GetSleepLogs(ctx, sleep.ListParams{Limit: in.Limit, DateRange: dateRange})
		if err != nil {
			return h.fetchErrorResult(ToolGetSleepLogs, "Error fetching sleep logs: ", err)
		}
		return h.jsonResult(ToolGetSleepLogs, resp)
	}
}

// GetWeightLogsTool returns the MCP tool handler for get_weight_logs.
func (h *Handler) GetWeightLogsTool() func(context.Context, *mcp.CallToolRequest, LogsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogsInput) (*mcp.CallToolResult, any, error) {
		dateRange, err := pkg.ParseDateRange(in.StartDate, in.EndDate)
		if err != nil {
			return h.errorResult(ToolGetWeightLogs, "Invalid date range: use YYYY-MM-DD")
		}
		resp, err := h.service.GetWeightLogs(ctx, weight.ListParams{Limit: in.Limit, DateRange: dateRange})
		if err != nil {
			return h.fetchErrorResult(ToolGetWeightLogs, "Error fetching weight logs: ", err)
		}
		return h.jsonResult(ToolGetWeightLogs, resp)
	}
}
