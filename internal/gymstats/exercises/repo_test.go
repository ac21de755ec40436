//go:build integration_test || all_tests

package exercises

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitdash/internal/testinternals"
)

func TestRepo_List_History_Progress(t *testing.T) {
	ctx := context.Background()
	dbPool, shutdown := testinternals.NewTestDB(t)
	defer shutdown()
	repo := NewRepo(dbPool)
	seed := testinternals.NewSeeder(dbPool)

	squat, err := seed.Exercise(ctx, "Squat")
	require.NoError(t, err)
	bench, err := seed.Exercise(ctx, "Bench Press")
	require.NoError(t, err)
	_, err = seed.Exercise(ctx, "Abs Wheel")
	require.NoError(t, err)

	now := time.Now()
	older, err := seed.Workout(ctx, "Full body 1", now.AddDate(0, 0, -10))
	require.NoError(t, err)
	newer, err := seed.Workout(ctx, "Full body 2", now.AddDate(0, 0, -3))
	require.NoError(t, err)
	benchOnly, err := seed.Workout(ctx, "Chest", now.AddDate(0, 0, -1))
	require.NoError(t, err)

	require.NoError(t, seed.Set(ctx, older, squat, 100, 5))
	require.NoError(t, seed.Set(ctx, older, squat, 105, 5))
	require.NoError(t, seed.Set(ctx, newer, squat, 110, 3))
	require.NoError(t, seed.Set(ctx, newer, bench, 70, 8))
	require.NoError(t, seed.Set(ctx, newer, squat, 90, 8))
	require.NoError(t, seed.Set(ctx, benchOnly, bench, 75, 6))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Bench Press", summaries[0].Name)
	assert.Equal(t, "Squat", summaries[1].Name)
	assert.Equal(t, 4, summaries[1].TotalSets)
	require.NotNil(t, summaries[1].MaxWeight)
	assert.Equal(t, 110.0, *summaries[1].MaxWeight)
	assert.Equal(t, "Abs Wheel", summaries[2].Name)
	assert.Nil(t, summaries[2].LastPerformed)
	assert.Nil(t, summaries[2].MaxWeight)

	exercise, history, err := repo.History(ctx, squat, 50)
	require.NoError(t, err)
	assert.Equal(t, "Squat", exercise.Name)
	require.Len(t, history, 2)
	assert.Equal(t, newer, history[0].WorkoutID)
	require.Len(t, history[0].Sets, 2)
	assert.Equal(t, 110.0, history[0].Sets[0].WeightKg)
	assert.Equal(t, 2, history[0].Sets[1].SetNumber)
	assert.Equal(t, 110.0, history[0].MaxWeight)
	assert.InDelta(t, 330+720, history[0].TotalVolume, 1e-9)

	// limit counts workouts, not sets
	_, history, err = repo.History(ctx, squat, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Len(t, history[0].Sets, 2)

	_, _, err = repo.History(ctx, 424242, 50)
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	_, points, err := repo.Progress(ctx, squat, MetricMaxWeight, 90)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Date < points[1].Date)
	assert.Equal(t, 105.0, points[0].Value)
	assert.Equal(t, 110.0, points[1].Value)

	_, points, err = repo.Progress(ctx, squat, MetricTotalVolume, 90)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.InDelta(t, 1025, points[0].Value, 1e-9)

	_, points, err = repo.Progress(ctx, squat, MetricMaxReps, 5)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 8.0, points[0].Value)

	_, _, err = repo.Progress(ctx, squat, Metric("avg"), 90)
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, _, err = repo.Progress(ctx, 424242, MetricMaxWeight, 90)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
