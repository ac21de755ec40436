package exercises

import (
	"errors"
	"time"

	"github.com/2beens/fitdash/internal/gymstats/workouts"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
	DefaultProgressDays = 90
	MaxProgressDays     = 365
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrInvalidMetric    = errors.New("invalid metric parameter")
)

type Exercise struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Summary struct {
	Exercise
	TotalSets     int        `json:"total_sets"`
	LastPerformed *time.Time `json:"last_performed"`
	MaxWeight     *float64   `json:"max_weight"`
}

// HistoryEntry is one workout in which the exercise was performed.
type HistoryEntry struct {
	WorkoutID   int                  `json:"workout_id"`
	WorkoutName string               `json:"workout_name"`
	Date        time.Time            `json:"date"`
	Sets        []workouts.SetDetail `json:"sets"`
	MaxWeight   float64              `json:"max_weight"`
	TotalVolume float64              `json:"total_volume"`
}

// HistoryRow is a single set of the exercise together with its workout.
type HistoryRow struct {
	WorkoutID   int
	WorkoutName string
	WorkoutDate time.Time
	WeightKg    float64
	Reps        int
}

type ProgressPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Metric string

const (
	MetricMaxWeight   Metric = "max_weight"
	MetricTotalVolume Metric = "total_volume"
	MetricMaxReps     Metric = "max_reps"
)

// metricAggregates maps every accepted metric to its SQL aggregate.
// Only these fragments are ever interpolated into the progress query.
var metricAggregates = map[Metric]string{
	MetricMaxWeight:   "MAX(s.weight_kg)",
	MetricTotalVolume: "SUM(s.weight_kg * s.reps)",
	MetricMaxReps:     "MAX(s.reps)",
}

func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricMaxWeight, nil
	}
	m := Metric(s)
	if _, ok := metricAggregates[m]; !ok {
		return "", ErrInvalidMetric
	}
	return m, nil
}

// BuildHistory folds set rows, grouped by workout and ordered by set id within
// each workout, into history entries. Entry order follows the row order.
func BuildHistory(rows []HistoryRow) []HistoryEntry {
	history := []HistoryEntry{}
	indexByWorkout := map[int]int{}
	for _, row := range rows {
		idx, ok := indexByWorkout[row.WorkoutID]
		if !ok {
			idx = len(history)
			indexByWorkout[row.WorkoutID] = idx
			history = append(history, HistoryEntry{
				WorkoutID:   row.WorkoutID,
				WorkoutName: row.WorkoutName,
				Date:        row.WorkoutDate,
				Sets:        []workouts.SetDetail{},
			})
		}

		entry := &history[idx]
		entry.Sets = append(entry.Sets, workouts.SetDetail{
			SetNumber: len(entry.Sets) + 1,
			WeightKg:  row.WeightKg,
			Reps:      row.Reps,
		})
		if len(entry.Sets) == 1 || row.WeightKg > entry.MaxWeight {
			entry.MaxWeight = row.WeightKg
		}
		entry.TotalVolume += row.WeightKg * float64(row.Reps)
	}
	return history
}
