package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/fitdash/internal/gymstats/exercises"
	"github.com/2beens/fitdash/internal/gymstats/workouts"
	"github.com/2beens/fitdash/internal/sleep"
	"github.com/2beens/fitdash/internal/weight"
	"github.com/2beens/fitdash/pkg"
)

var ErrNegativeOffset = errors.New("offset must be a non-negative integer")

// WorkoutsRepo provides workouts and training volume.
type WorkoutsRepo interface {
	List(ctx context.Context, params workouts.ListParams) (_ []workouts.Summary, total int, err error)
	Get(ctx context.Context, id int) (*workouts.Detail, error)
	VolumeOverTime(ctx context.Context, days int, groupBy workouts.GroupBy) ([]workouts.VolumePoint, error)
}

// ExercisesRepo provides exercises with their history and progress.
type ExercisesRepo interface {
	List(ctx context.Context) ([]exercises.Summary, error)
	History(ctx context.Context, id, limit int) (*exercises.Exercise, []exercises.HistoryEntry, error)
	Progress(ctx context.Context, id int, metric exercises.Metric, days int) (*exercises.Exercise, []exercises.ProgressPoint, error)
}

type SleepRepo interface {
	Logs(ctx context.Context, params sleep.ListParams) ([]sleep.Log, *sleep.Stats, error)
}

type WeightRepo interface {
	Logs(ctx context.Context, params weight.ListParams) ([]weight.Log, *weight.Stats, error)
}

// contextService provides the fitdash data exposed as MCP tools.
// Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListWorkouts(ctx context.Context, params workouts.ListParams) (*workouts.ListResponse, error)
	GetWorkout(ctx context.Context, id int) (*workouts.Detail, error)
	GetVolumeOverTime(ctx context.Context, days int, groupBy workouts.GroupBy) (*workouts.VolumeResponse, error)
	ListExercises(ctx context.Context) (*exercises.ListResponse, error)
	GetExerciseHistory(ctx context.Context, id, limit int) (*exercises.HistoryResponse, error)
	GetExerciseProgress(ctx context.Context, id int, metric exercises.Metric, days int) (*exercises.ProgressResponse, error)
	GetSleepLogs(ctx context.Context, params sleep.ListParams) (*sleep.LogsResponse, error)
	GetWeightLogs(ctx context.Context, params weight.ListParams) (*weight.LogsResponse, error)
}

// Repos groups the data sources of the ContextService.
type Repos struct {
	Schema    SchemaRepo
	Workouts  WorkoutsRepo
	Exercises ExercisesRepo
	Sleep     SleepRepo
	Weight    WeightRepo
}

// ContextService applies the same defaults and bounds as the REST API before
// reading from the repos. Zero limits and day counts mean "use the default".
type ContextService struct {
	repos Repos
}

func NewContextService(repos Repos) *ContextService {
	return &ContextService{
		repos: repos,
	}
}

// GetSchema returns the DB schema (table names, columns, types) of the fitdash tables.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.repos.Schema.GetColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols), nil
}

func formatSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Fitdash DB Schema\n\nNo fitdash tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Fitdash DB Schema\n\n")
	b.WriteString("Tables: workouts, exercises, sets, sleep_logs, weight_logs (schema: public).\n")
	b.WriteString("Volume of a set is weight_kg * reps.\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) ListWorkouts(ctx context.Context, params workouts.ListParams) (*workouts.ListResponse, error) {
	if params.Offset < 0 {
		return nil, ErrNegativeOffset
	}
	params.Limit = pkg.ClampLimit(params.Limit, workouts.DefaultListLimit, workouts.MaxListLimit)

	summaries, total, err := s.repos.Workouts.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &workouts.ListResponse{
		Workouts: summaries,
		Total:    total,
		Limit:    params.Limit,
		Offset:   params.Offset,
	}, nil
}

func (s *ContextService) GetWorkout(ctx context.Context, id int) (*workouts.Detail, error) {
	return s.repos.Workouts.Get(ctx, id)
}

func (s *ContextService) GetVolumeOverTime(ctx context.Context, days int, groupBy workouts.GroupBy) (*workouts.VolumeResponse, error) {
	days = pkg.ClampLimit(days, workouts.DefaultVolumeDays, workouts.MaxVolumeDays)
	points, err := s.repos.Workouts.VolumeOverTime(ctx, days, groupBy)
	if err != nil {
		return nil, err
	}
	return &workouts.VolumeResponse{Data: points}, nil
}

func (s *ContextService) ListExercises(ctx context.Context) (*exercises.ListResponse, error) {
	summaries, err := s.repos.Exercises.List(ctx)
	if err != nil {
		return nil, err
	}
	return &exercises.ListResponse{Exercises: summaries}, nil
}

func (s *ContextService) GetExerciseHistory(ctx context.Context, id, limit int) (*exercises.HistoryResponse, error) {
	limit = pkg.ClampLimit(limit, exercises.DefaultHistoryLimit, exercises.MaxHistoryLimit)
	exercise, history, err := s.repos.Exercises.History(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	return &exercises.HistoryResponse{
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		History:      history,
	}, nil
}

func (s *ContextService) GetExerciseProgress(ctx context.Context, id int, metric exercises.Metric, days int) (*exercises.ProgressResponse, error) {
	days = pkg.ClampLimit(days, exercises.DefaultProgressDays, exercises.MaxProgressDays)
	exercise, points, err := s.repos.Exercises.Progress(ctx, id, metric, days)
	if err != nil {
		return nil, err
	}
	return &exercises.ProgressResponse{
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
		Metric:       metric,
		Data:         points,
	}, nil
}

func (s *ContextService) GetSleepLogs(ctx context.Context, params sleep.ListParams) (*sleep.LogsResponse, error) {
	params.Limit = pkg.ClampLimit(params.Limit, sleep.DefaultLogsLimit, sleep.MaxLogsLimit)
	logs, stats, err := s.repos.Sleep.Logs(ctx, params)
	if err != nil {
		return nil, err
	}
	return &sleep.LogsResponse{Logs: logs, Stats: stats}, nil
}

func (s *ContextService) GetWeightLogs(ctx context.Context, params weight.ListParams) (*weight.LogsResponse, error) {
	params.Limit = pkg.ClampLimit(params.Limit, weight.DefaultLogsLimit, weight.MaxLogsLimit)
	logs, stats, err := s.repos.Weight.Logs(ctx, params)
	if err != nil {
		return nil, err
	}
	return &weight.LogsResponse{Logs: logs, Stats: stats}, nil
}
