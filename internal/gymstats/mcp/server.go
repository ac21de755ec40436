package mcp

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/fitdash/internal/gymstats/exercises"
	"github.com/2beens/fitdash/internal/gymstats/workouts"
	"github.com/2beens/fitdash/internal/sleep"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/weight"
)

// NewPoolRepos builds the Postgres backed repos of the MCP tools.
func NewPoolRepos(pool *pgxpool.Pool) Repos {
	return Repos{
		Schema:    NewPoolSchemaRepo(pool),
		Workouts:  workouts.NewRepo(pool),
		Exercises: exercises.NewRepo(pool),
		Sleep:     sleep.NewRepo(pool),
		Weight:    weight.NewRepo(pool),
	}
}

// NewServer builds an MCP server exposing the fitdash read queries as tools.
// Mounted on the backend at /mcp and served over stdio by cmd/fitdash_mcp.
func NewServer(repos Repos, metricsManager *metrics.Manager) *mcp.Server {
	h := NewHandler(NewContextService(repos), metricsManager)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitdash",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolGetSchema,
		Description: "Returns the DB schema of the fitdash tables (workouts, exercises, sets, sleep_logs, weight_logs): columns, types, nullable, default.",
	}, h.GetSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolListWorkouts,
		Description: "Returns workouts newest first with exercise count, set count and total volume (kg x reps). Optional: limit, offset, start_date, end_date (YYYY-MM-DD, inclusive).",
	}, h.ListWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolGetWorkout,
		Description: "Returns one workout with its sets grouped by exercise, per exercise max weight and volume. Arg: workout_id.",
	}, h.GetWorkoutTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolGetVolumeOverTime,
		Description: "Returns total training volume per day, week or month over the last N days. Optional: days, group_by.",
	}, h.GetVolumeOverTimeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolListExercises,
		Description: "Returns all exercises with total sets, last performed date and max weight.",
	}, h.ListExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolGetExerciseHistory,
		Description: "Returns the most recent workouts containing an exercise with their sets. Arg: exercise_id; optional: limit.",
	}, h.GetExerciseHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolGetExerciseProgress,
		Description: "Returns a per-day series of max_weight, total_volume or max_reps for an exercise. Arg: exercise_id; optional: metric, days.",
	}, h.GetExerciseProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolGetSleepLogs,
		Description: "Returns sleep logs newest first with average duration, average quality and log count for the range. Optional: limit, start_date, end_date.",
	}, h.GetSleepLogsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        ToolGetWeightLogs,
		Description: "Returns weight logs newest first with current, start and change of weight and average body fat for the range. Optional: limit, start_date, end_date.",
	}, h.GetWeightLogsTool())

	return s
}
