package workouts

// BuildDetail folds the sets of a workout, ordered by set id, into per exercise
// groups. Exercises keep the order of their first performed set and set numbers
// restart at 1 for each exercise.
func BuildDetail(w Workout, rows []SetRow) Detail {
	detail := Detail{
		Workout:   w,
		Exercises: []ExerciseWithSets{},
	}

	indexByExercise := map[int]int{}
	for _, row := range rows {
		idx, ok := indexByExercise[row.ExerciseID]
		if !ok {
			idx = len(detail.Exercises)
			indexByExercise[row.ExerciseID] = idx
			detail.Exercises = append(detail.Exercises, ExerciseWithSets{
				ExerciseID:   row.ExerciseID,
				ExerciseName: row.ExerciseName,
				Sets:         []SetDetail{},
			})
		}

		ex := &detail.Exercises[idx]
		ex.Sets = append(ex.Sets, SetDetail{
			SetNumber: len(ex.Sets) + 1,
			WeightKg:  row.WeightKg,
			Reps:      row.Reps,
		})
		volume := row.WeightKg * float64(row.Reps)
		ex.TotalVolume += volume
		detail.TotalVolume += volume
		detail.TotalSets++
	}

	return detail
}
