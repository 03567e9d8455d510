package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/progression"
	"github.com/ptstack/ptstack/internal/storage"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	st, err := storage.Open("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.DB.Close() })
	return st
}

func stagedWorkingSet(index int, reps int, weight float32) models.StagedSet {
	return models.StagedSet{
		SetIndex:         index,
		SetType:          models.SetTypeNormal,
		PrescribedReps:   reps,
		PrescribedWeight: weight,
		PerformedReps:    reps,
		PerformedWeight:  weight,
		Completed:        true,
	}
}

func TestNextPrescriptionSeedsFromWorkingSets(t *testing.T) {
	st := newTestStorage(t)

	user, err := st.CreateUser("ana", models.RoleMember)
	require.NoError(t, err)
	require.NoError(t, st.CreateExercise(models.Exercise{
		Name:          "Squat",
		PrimaryMuscle: "quads",
		Category:      "legs",
	}))
	ex, err := st.GetExerciseByName("Squat")
	require.NoError(t, err)

	// Last session was staged with a warm-up ramp ahead of the working sets,
	// all hit as prescribed.
	state := &models.SessionState{
		UserID:    user.ID,
		StartTime: time.Now().UTC().Add(-time.Hour),
		Exercises: []models.StagedExercise{{
			ExerciseID: ex.ID,
			Name:       ex.Name,
			Sets: []models.StagedSet{
				{
					SetIndex:         1,
					SetType:          models.SetTypeWarmup,
					PrescribedReps:   5,
					PrescribedWeight: 50,
					PerformedReps:    5,
					PerformedWeight:  50,
					Completed:        true,
				},
				stagedWorkingSet(2, 5, 100),
				stagedWorkingSet(3, 5, 100),
			},
		}},
	}
	_, err = st.SaveSession(state)
	require.NoError(t, err)

	pde := models.ProgramDayExercise{
		ExerciseID:  ex.ID,
		Sets:        2,
		RepsMin:     5,
		RepsMax:     5,
		StartWeight: 100,
		Rules: progression.RuleList{
			progression.LinearProgression{Increment: 2.5, Frequency: progression.FrequencySession},
			progression.CustomWarmup{Steps: []progression.WarmupStep{{Reps: 5, Percentage: 50}}},
		},
	}

	next, err := nextPrescription(st, user.ID, pde, models.ProgramDay{Name: "Day A"}, 1, time.Now().UTC())
	require.NoError(t, err)

	// The working prescription advances from the working weight, never from
	// the warm-up ramp.
	assert.Equal(t, float32(102.5), next.Weight)
	assert.Equal(t, 5, next.Reps)
	require.Len(t, next.Warmup, 1)
	assert.InDelta(t, 51.25, float64(next.Warmup[0].Weight), 0.01)
}

func TestNextPrescriptionWithoutHistoryUsesProgramDefaults(t *testing.T) {
	st := newTestStorage(t)

	user, err := st.CreateUser("bo", models.RoleMember)
	require.NoError(t, err)
	require.NoError(t, st.CreateExercise(models.Exercise{
		Name:          "Bench Press",
		PrimaryMuscle: "chest",
		Category:      "push",
	}))
	ex, err := st.GetExerciseByName("Bench Press")
	require.NoError(t, err)

	pde := models.ProgramDayExercise{
		ExerciseID:  ex.ID,
		Sets:        3,
		RepsMin:     8,
		RepsMax:     12,
		StartWeight: 60,
		Rules: progression.RuleList{
			progression.DoubleProgression{RepsMin: 8, RepsMax: 12, WeightIncrement: 2.5},
		},
	}

	next, err := nextPrescription(st, user.ID, pde, models.ProgramDay{Name: "Day A"}, 1, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, float32(60), next.Weight)
	assert.Equal(t, 8, next.Reps)
	assert.Equal(t, 3, next.Sets)
}

func TestSortedKeysIsStable(t *testing.T) {
	m := map[string]int{"quads": 2, "chest": 1, "back": 3}
	assert.Equal(t, []string{"back", "chest", "quads"}, sortedKeys(m))
}
