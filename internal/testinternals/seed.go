package testinternals

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seeder inserts fixture rows for repo and end to end tests.
type Seeder struct {
	db *pgxpool.Pool
}

func NewSeeder(db *pgxpool.Pool) *Seeder {
	return &Seeder{db: db}
}

func (s *Seeder) Exercise(ctx context.Context, name string) (int, error) {
	var id int
	err := s.db.QueryRow(ctx,
		`INSERT INTO exercises (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		name,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("seed exercise %s: %w", name, err)
	}
	return id, nil
}

func (s *Seeder) Workout(ctx context.Context, name string, date time.Time) (int, error) {
	var id int
	err := s.db.QueryRow(ctx,
		`INSERT INTO workouts (name, workout_date) VALUES ($1, $2) RETURNING id`,
		name, date,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("seed workout %s: %w", name, err)
	}
	return id, nil
}

func (s *Seeder) Set(ctx context.Context, workoutID, exerciseID int, weightKg float64, reps int) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO sets (workout_id, exercise_id, weight_kg, reps) VALUES ($1, $2, $3, $4)`,
		workoutID, exerciseID, weightKg, reps,
	)
	if err != nil {
		return fmt.Errorf("seed set: %w", err)
	}
	return nil
}

func (s *Seeder) SleepLog(ctx context.Context, date time.Time, hours *float64, quality *int) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO sleep_logs (log_date, duration_hours, quality) VALUES ($1, $2, $3)`,
		date, hours, quality,
	)
	if err != nil {
		return fmt.Errorf("seed sleep log: %w", err)
	}
	return nil
}

func (s *Seeder) WeightLog(ctx context.Context, date time.Time, weightKg float64, bodyFat *float64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO weight_logs (log_date, weight_kg, body_fat_pct) VALUES ($1, $2, $3)`,
		date, weightKg, bodyFat,
	)
	if err != nil {
		return fmt.Errorf("seed weight log: %w", err)
	}
	return nil
}
