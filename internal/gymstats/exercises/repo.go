package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/2beens/fitdash/internal/telemetry/tracing"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// List returns every exercise with its aggregates, most recently performed first
// and never performed exercises last.
func (r *Repo) List(ctx context.Context) (_ []Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				e.id, e.name, e.created_at,
				COUNT(s.id)::int AS total_sets,
				MAX(w.workout_date) AS last_performed,
				MAX(s.weight_kg)::float8 AS max_weight
			FROM exercises e
				LEFT JOIN sets s ON s.exercise_id = e.id
				LEFT JOIN workouts w ON w.id = s.workout_id
			GROUP BY e.id
			ORDER BY last_performed DESC NULLS LAST, e.name ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.TotalSets, &s.LastPerformed, &s.MaxWeight); err != nil {
			return nil, fmt.Errorf("scan exercise summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Exercise, error) {
	var e Exercise
	err := r.db.QueryRow(
		ctx,
		`SELECT id, name, created_at FROM exercises WHERE id = $1;`,
		id,
	).Scan(&e.ID, &e.Name, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("get exercise %d: %w", id, err)
	}
	return &e, nil
}

// History returns the exercise and its sets in the limit most recent workouts
// containing it, newest workout first.
func (r *Repo) History(ctx context.Context, id, limit int) (_ *Exercise, _ []HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.history")
	span.SetAttributes(attribute.Int("id", id))
	span.SetAttributes(attribute.Int("limit", limit))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var (
		exercise *Exercise
		rows     []HistoryRow
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var getErr error
		exercise, getErr = r.Get(gCtx, id)
		return getErr
	})
	g.Go(func() error {
		var rowsErr error
		rows, rowsErr = r.historyRows(gCtx, id, limit)
		return rowsErr
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return exercise, BuildHistory(rows), nil
}

func (r *Repo) historyRows(ctx context.Context, id, limit int) ([]HistoryRow, error) {
	rows, err := r.db.Query(
		ctx,
		`
			WITH recent AS (
				SELECT DISTINCT w.id, w.name, w.workout_date
				FROM workouts w
					JOIN sets s ON s.workout_id = w.id
				WHERE s.exercise_id = $1
				ORDER BY w.workout_date DESC, w.id DESC
				LIMIT $2
			)
			SELECT r.id, r.name, r.workout_date, s.weight_kg::float8, s.reps
			FROM recent r
				JOIN sets s ON s.workout_id = r.id AND s.exercise_id = $1
			ORDER BY r.workout_date DESC, r.id DESC, s.id ASC;`,
		id, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("exercise %d history: %w", id, err)
	}
	defer rows.Close()

	var history []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.WorkoutID, &h.WorkoutName, &h.WorkoutDate, &h.WeightKg, &h.Reps); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

// Progress returns one point per calendar day with sets of the exercise in the
// trailing window, ascending by day.
func (r *Repo) Progress(ctx context.Context, id int, metric Metric, days int) (_ *Exercise, _ []ProgressPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.progress")
	span.SetAttributes(attribute.Int("id", id))
	span.SetAttributes(attribute.String("metric", string(metric)))
	span.SetAttributes(attribute.Int("days", days))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	aggregate, ok := metricAggregates[metric]
	if !ok {
		return nil, nil, ErrInvalidMetric
	}

	var (
		exercise *Exercise
		points   []ProgressPoint
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var getErr error
		exercise, getErr = r.Get(gCtx, id)
		return getErr
	})
	g.Go(func() error {
		var pointsErr error
		points, pointsErr = r.progressPoints(gCtx, id, aggregate, days)
		return pointsErr
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return exercise, points, nil
}

func (r *Repo) progressPoints(ctx context.Context, id int, aggregate string, days int) ([]ProgressPoint, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT TO_CHAR(w.workout_date::date, 'YYYY-MM-DD') AS date, `+aggregate+`::float8 AS value
			FROM sets s
				JOIN workouts w ON w.id = s.workout_id
			WHERE s.exercise_id = $1
				AND w.workout_date >= NOW() - make_interval(days => $2)
			GROUP BY w.workout_date::date
			ORDER BY w.workout_date::date ASC;`,
		id, days,
	)
	if err != nil {
		return nil, fmt.Errorf("exercise %d progress: %w", id, err)
	}
	defer rows.Close()

	points := []ProgressPoint{}
	for rows.Next() {
		var p ProgressPoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan progress point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
