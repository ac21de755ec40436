//go:build e2e_test || all_tests

package test

import (
	"context"
	"fmt"
	"time"
)

type seedSet struct {
	exerciseID int
	weightKg   float64
	reps       int
}

// seed fills the database with two workouts in the last few days and a handful
// of sleep and weight logs with fixed dates.
func (s *IntegrationTestSuite) seed(ctx context.Context) error {
	var err error
	if s.seeded.benchPressID, err = s.insertExercise(ctx, "Bench Press"); err != nil {
		return err
	}
	if s.seeded.squatID, err = s.insertExercise(ctx, "Squat"); err != nil {
		return err
	}
	if _, err = s.insertExercise(ctx, "Deadlift"); err != nil {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour).Add(12 * time.Hour)
	if s.seeded.pushDayID, err = s.insertWorkout(ctx, "Push Day", today.AddDate(0, 0, -3), []seedSet{
		{s.seeded.benchPressID, 80, 8},
		{s.seeded.benchPressID, 85, 6},
	}); err != nil {
		return err
	}
	if s.seeded.legDayID, err = s.insertWorkout(ctx, "Leg Day", today.AddDate(0, 0, -1), []seedSet{
		{s.seeded.squatID, 100, 5},
		{s.seeded.squatID, 100, 5},
		{s.seeded.squatID, 110, 3},
	}); err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, `
		INSERT INTO sleep_logs (log_date, duration_hours, quality, notes)
		VALUES ('2024-03-01', 7.5, 4, 'slept well'),
		       ('2024-03-02', 6.5, 3, NULL);`,
	); err != nil {
		return fmt.Errorf("insert sleep logs: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx, `
		INSERT INTO weight_logs (log_date, weight_kg, body_fat_pct)
		VALUES ('2024-03-01', 82.0, 18.0),
		       ('2024-03-10', 80.5, 17.0);`,
	); err != nil {
		return fmt.Errorf("insert weight logs: %w", err)
	}

	return nil
}

func (s *IntegrationTestSuite) insertExercise(ctx context.Context, name string) (int, error) {
	var id int
	if err := s.DB.QueryRowContext(
		ctx,
		`INSERT INTO exercises (name) VALUES ($1) RETURNING id;`,
		name,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert exercise %s: %w", name, err)
	}
	return id, nil
}

func (s *IntegrationTestSuite) insertWorkout(ctx context.Context, name string, date time.Time, sets []seedSet) (int, error) {
	var id int
	if err := s.DB.QueryRowContext(
		ctx,
		`INSERT INTO workouts (name, workout_date, source) VALUES ($1, $2, 'e2e') RETURNING id;`,
		name, date,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert workout %s: %w", name, err)
	}

	for _, set := range sets {
		if _, err := s.DB.ExecContext(
			ctx,
			`INSERT INTO sets (workout_id, exercise_id, weight_kg, reps) VALUES ($1, $2, $3, $4);`,
			id, set.exerciseID, set.weightKg, set.reps,
		); err != nil {
			return 0, fmt.Errorf("insert set for workout %d: %w", id, err)
		}
	}

	return id, nil
}
