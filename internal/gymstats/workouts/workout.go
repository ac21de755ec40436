package workouts

import (
	"errors"
	"time"

	"github.com/2beens/fitdash/pkg"
)

const (
	DefaultListLimit  = 20
	MaxListLimit      = 100
	DefaultVolumeDays = 30
	MaxVolumeDays     = 365
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrInvalidGroupBy  = errors.New("invalid groupBy parameter")
)

type Workout struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	WorkoutDate time.Time `json:"workout_date"`
	Source      *string   `json:"source"`
	SourceMsgID *string   `json:"source_msg_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Summary struct {
	Workout
	ExerciseCount int     `json:"exercise_count"`
	TotalSets     int     `json:"total_sets"`
	TotalVolume   float64 `json:"total_volume"`
}

type SetDetail struct {
	SetNumber int     `json:"set_number"`
	WeightKg  float64 `json:"weight_kg"`
	Reps      int     `json:"reps"`
}

type ExerciseWithSets struct {
	ExerciseID   int         `json:"exercise_id"`
	ExerciseName string      `json:"exercise_name"`
	Sets         []SetDetail `json:"sets"`
	TotalVolume  float64     `json:"total_volume"`
}

type Detail struct {
	Workout
	Exercises   []ExerciseWithSets `json:"exercises"`
	TotalVolume float64            `json:"total_volume"`
	TotalSets   int                `json:"total_sets"`
}

// SetRow is one performed set joined with its exercise name.
type SetRow struct {
	SetID        int
	ExerciseID   int
	ExerciseName string
	WeightKg     float64
	Reps         int
}

type VolumePoint struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
}

type ListParams struct {
	Limit  int
	Offset int
	pkg.DateRange
}

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case "":
		return GroupByWeek, nil
	case GroupByDay, GroupByWeek, GroupByMonth:
		return GroupBy(s), nil
	default:
		return "", ErrInvalidGroupBy
	}
}

// labelFormat is the postgres TO_CHAR pattern of a bucket label.
func (g GroupBy) labelFormat() string {
	if g == GroupByMonth {
		return "YYYY-MM"
	}
	return "YYYY-MM-DD"
}
