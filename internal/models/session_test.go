package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptstack/ptstack/internal/models"
)

func rpe(v float32) *float32 { return &v }

func TestSessionComplete(t *testing.T) {
	start := time.Date(2025, time.March, 3, 18, 0, 0, 0, time.UTC)
	session := models.TrainingSession{ID: "s1", StartTime: start}

	require.NoError(t, session.Complete(start.Add(time.Hour)))
	require.NotNil(t, session.CompletedAt)
	assert.Equal(t, start.Add(time.Hour), *session.CompletedAt)

	late := models.TrainingSession{ID: "s2", StartTime: start}
	err := late.Complete(start.Add(-time.Minute))
	assert.Error(t, err)
	assert.Nil(t, late.CompletedAt)
}

func TestSetMatchesPrescription(t *testing.T) {
	testCases := []struct {
		name string
		set  models.SessionSet
		want bool
	}{
		{
			name: "exact match without rpe",
			set:  models.SessionSet{PrescribedReps: 5, PrescribedWeight: 100, PerformedReps: 5, PerformedWeight: 100},
			want: true,
		},
		{
			name: "exact match with rpe",
			set: models.SessionSet{
				PrescribedReps: 5, PrescribedWeight: 100, PrescribedRPE: rpe(8),
				PerformedReps: 5, PerformedWeight: 100, PerformedRPE: rpe(8),
			},
			want: true,
		},
		{
			name: "more reps than prescribed is not as prescribed",
			set:  models.SessionSet{PrescribedReps: 5, PrescribedWeight: 100, PerformedReps: 6, PerformedWeight: 100},
			want: false,
		},
		{
			name: "different weight",
			set:  models.SessionSet{PrescribedReps: 5, PrescribedWeight: 100, PerformedReps: 5, PerformedWeight: 97.5},
			want: false,
		},
		{
			name: "rpe prescribed but not recorded",
			set: models.SessionSet{
				PrescribedReps: 5, PrescribedWeight: 100, PrescribedRPE: rpe(8),
				PerformedReps: 5, PerformedWeight: 100,
			},
			want: false,
		},
		{
			name: "rpe recorded but not prescribed",
			set: models.SessionSet{
				PrescribedReps: 5, PrescribedWeight: 100,
				PerformedReps: 5, PerformedWeight: 100, PerformedRPE: rpe(8),
			},
			want: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.set.MatchesPrescription())
		})
	}
}

func TestSetCountsForVolume(t *testing.T) {
	assert.True(t, (&models.SessionSet{Completed: true}).CountsForVolume())
	assert.False(t, (&models.SessionSet{Completed: true, Skipped: true}).CountsForVolume())
	assert.False(t, (&models.SessionSet{}).CountsForVolume())
	assert.False(t, (&models.SessionSet{Skipped: true}).CountsForVolume())
}

func TestSessionExerciseResolution(t *testing.T) {
	catalog := models.SessionExercise{
		Exercise: &models.Exercise{Name: "Bench Press", PrimaryMuscle: "chest", Category: "push"},
	}
	muscle, ok := catalog.MuscleGroup()
	require.True(t, ok)
	assert.Equal(t, "chest", muscle)
	assert.Equal(t, "Bench Press", catalog.Name())

	custom := models.SessionExercise{
		Custom: &models.CustomExercise{Name: "Band Pull-Apart", PrimaryMuscle: "rear delts", Category: "pull"},
	}
	muscle, ok = custom.MuscleGroup()
	require.True(t, ok)
	assert.Equal(t, "rear delts", muscle)

	var dangling models.SessionExercise
	_, ok = dangling.MuscleGroup()
	assert.False(t, ok)
	_, ok = dangling.Category()
	assert.False(t, ok)
	assert.Equal(t, "", dangling.Name())
}
