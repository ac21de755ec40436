package workouts

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

const workoutsFilter = `
	($1::date IS NULL OR w.workout_date::date >= $1::date)
	AND ($2::date IS NULL OR w.workout_date::date <= $2::date)`

// List returns a page of workout summaries, newest first, and the total number
// of workouts matching the date filter.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Summary, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	span.SetAttributes(attribute.Int("limit", params.Limit))
	span.SetAttributes(attribute.Int("offset", params.Offset))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var summaries []Summary
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var countErr error
		total, countErr = r.count(gCtx, params)
		return countErr
	})
	g.Go(func() error {
		var listErr error
		summaries, listErr = r.listPage(gCtx, params)
		return listErr
	})
	if err := g.Wait(); err != nil {
		return nil, -1, err
	}

	return summaries, total, nil
}

func (r *Repo) count(ctx context.Context, params ListParams) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM workouts w WHERE `+workoutsFilter,
		params.From, params.To,
	).Scan(&count)
	if err != nil {
		return -1, fmt.Errorf("count workouts: %w", err)
	}
	return count, nil
}

func (r *Repo) listPage(ctx context.Context, params ListParams) ([]Summary, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				w.id, w.name, w.workout_date, w.source, w.source_msg_id, w.created_at,
				COUNT(DISTINCT s.exercise_id)::int AS exercise_count,
				COUNT(s.id)::int AS total_sets,
				COALESCE(SUM(s.weight_kg * s.reps), 0)::float8 AS total_volume
			FROM workouts w
				LEFT JOIN sets s ON s.workout_id = w.id
			WHERE `+workoutsFilter+`
			GROUP BY w.id
			ORDER BY w.workout_date DESC, w.id DESC
			LIMIT $3 OFFSET $4;`,
		params.From, params.To, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	return r.rows2summaries(rows)
}

func (r *Repo) rows2summaries(rows pgx.Rows) ([]Summary, error) {
	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(
			&s.ID, &s.Name, &s.WorkoutDate, &s.Source, &s.SourceMsgID, &s.CreatedAt,
			&s.ExerciseCount, &s.TotalSets, &s.TotalVolume,
		); err != nil {
			return nil, fmt.Errorf("scan workout summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Get returns the workout with its sets grouped by exercise.
func (r *Repo) Get(ctx context.Context, id int) (_ *Detail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	span.SetAttributes(attribute.Int("id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var (
		workout Workout
		sets    []SetRow
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, getErr := r.getWorkout(gCtx, id)
		if getErr != nil {
			return getErr
		}
		workout = *w
		return nil
	})
	g.Go(func() error {
		var setsErr error
		sets, setsErr = r.workoutSets(gCtx, id)
		return setsErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail := BuildDetail(workout, sets)
	return &detail, nil
}

func (r *Repo) getWorkout(ctx context.Context, id int) (*Workout, error) {
	var w Workout
	err := r.db.QueryRow(
		ctx,
		`SELECT id, name, workout_date, source, source_msg_id, created_at FROM workouts WHERE id = $1;`,
		id,
	).Scan(&w.ID, &w.Name, &w.WorkoutDate, &w.Source, &w.SourceMsgID, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("get workout %d: %w", id, err)
	}
	return &w, nil
}

func (r *Repo) workoutSets(ctx context.Context, workoutID int) ([]SetRow, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT s.id, s.exercise_id, e.name, s.weight_kg::float8, s.reps
			FROM sets s
				JOIN exercises e ON e.id = s.exercise_id
			WHERE s.workout_id = $1
			ORDER BY s.id;`,
		workoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sets of workout %d: %w", workoutID, err)
	}
	defer rows.Close()

	var sets []SetRow
	for rows.Next() {
		var s SetRow
		if err := rows.Scan(&s.SetID, &s.ExerciseID, &s.ExerciseName, &s.WeightKg, &s.Reps); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

// VolumeOverTime sums weight x reps of all sets in the trailing window of days,
// bucketed by day, week or month. Buckets without workouts are absent.
func (r *Repo) VolumeOverTime(ctx context.Context, days int, groupBy GroupBy) (_ []VolumePoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.volume")
	span.SetAttributes(attribute.Int("days", days))
	span.SetAttributes(attribute.String("group_by", string(groupBy)))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT TO_CHAR(b.bucket, $2) AS date, b.volume
			FROM (
				SELECT
					DATE_TRUNC($1, w.workout_date) AS bucket,
					COALESCE(SUM(s.weight_kg * s.reps), 0)::float8 AS volume
				FROM workouts w
					LEFT JOIN sets s ON s.workout_id = w.id
				WHERE w.workout_date >= NOW() - make_interval(days => $3)
				GROUP BY bucket
			) b
			ORDER BY b.bucket ASC;`,
		string(groupBy), groupBy.labelFormat(), days,
	)
	if err != nil {
		return nil, fmt.Errorf("volume over time: %w", err)
	}
	defer rows.Close()

	points := []VolumePoint{}
	for rows.Next() {
		var p VolumePoint
		if err := rows.Scan(&p.Date, &p.Volume); err != nil {
			return nil, fmt.Errorf("scan volume point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
