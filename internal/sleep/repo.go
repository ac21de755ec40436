package sleep

import (
	"context"
	"fmt"

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

const logsFilter = `
	($1::date IS NULL OR log_date >= $1::date)
	AND ($2::date IS NULL OR log_date <= $2::date)`

// Logs returns the most recent sleep logs in the date range together with
// the stats of the whole range.
func (r *Repo) Logs(ctx context.Context, params ListParams) (_ []Log, _ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sleep.logs")
	span.SetAttributes(attribute.Int("limit", params.Limit))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var (
		logs  []Log
		stats *Stats
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var logsErr error
		logs, logsErr = r.logs(gCtx, params)
		return logsErr
	})
	g.Go(func() error {
		var statsErr error
		stats, statsErr = r.stats(gCtx, params)
		return statsErr
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return logs, stats, nil
}

func (r *Repo) logs(ctx context.Context, params ListParams) ([]Log, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, log_date, duration_hours::float8, quality::int, notes, created_at, updated_at
			FROM sleep_logs
			WHERE `+logsFilter+`
			ORDER BY log_date DESC
			LIMIT $3;`,
		params.From, params.To, params.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sleep logs: %w", err)
	}
	defer rows.Close()

	logs := []Log{}
	for rows.Next() {
		var l Log
		if err := rows.Scan(
			&l.ID, &l.LogDate.Time, &l.DurationHours, &l.Quality, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sleep log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *Repo) stats(ctx context.Context, params ListParams) (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(
		ctx,
		`
			SELECT AVG(duration_hours)::float8, AVG(quality)::float8, COUNT(*)::int
			FROM sleep_logs
			WHERE `+logsFilter+`;`,
		params.From, params.To,
	).Scan(&s.AvgDuration, &s.AvgQuality, &s.TotalLogs)
	if err != nil {
		return nil, fmt.Errorf("sleep stats: %w", err)
	}
	return &s, nil
}
