package cmd

import (
	"sort"
	"time"

	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/progression"
	"github.com/ptstack/ptstack/internal/storage"
	"github.com/ptstack/ptstack/internal/utils"
)

// nextPrescription seeds the evaluator with the prior prescription for a
// planned exercise (the last session's prescribed values, or the program
// defaults when the exercise was never performed) and folds its rule list.
func nextPrescription(
	st *storage.Storage,
	userID string,
	pde models.ProgramDayExercise,
	day models.ProgramDay,
	weekNumber int,
	ref time.Time,
) (progression.Prescription, error) {
	prior := progression.Prescription{
		Sets:      pde.Sets,
		Reps:      pde.RepsMin,
		Weight:    pde.StartWeight,
		TargetRPE: pde.TargetRPE,
	}

	lastSets, err := st.LastPerformedSets(userID, pde.ExerciseID)
	if err != nil {
		return prior, err
	}
	if len(lastSets) == 0 {
		// Nothing to progress from.
		return progression.Evaluate(pde.Rules, prior, nil, progression.Context{
			WeekNumber:   weekNumber,
			NewWeek:      true,
			DayIntensity: day.Intensity,
		}), nil
	}

	// Seed from the first working set. Warm-up sets carry ramp weights, not
	// the session's working prescription.
	for _, set := range lastSets {
		if set.SetType == models.SetTypeWarmup {
			continue
		}
		if set.PrescribedReps > 0 {
			prior.Reps = set.PrescribedReps
		}
		if set.PrescribedWeight > 0 {
			prior.Weight = set.PrescribedWeight
		}
		break
	}

	perf := &progression.Performance{
		PrescribedReps:   prior.Reps,
		PrescribedWeight: prior.Weight,
	}
	for _, set := range lastSets {
		if set.SetType == models.SetTypeWarmup {
			continue
		}
		perf.Sets = append(perf.Sets, progression.SetPerformance{
			Reps:      set.PerformedReps,
			Weight:    set.PerformedWeight,
			RPE:       set.PerformedRPE,
			Completed: set.Completed,
			Skipped:   set.Skipped,
		})
	}

	newWeek := true
	if lastDone, err := st.LastCompletedSessionTime(userID); err == nil && lastDone != nil {
		newWeek = !utils.SameISOWeek(*lastDone, ref)
	}

	return progression.Evaluate(pde.Rules, prior, perf, progression.Context{
		WeekNumber:   weekNumber,
		NewWeek:      newWeek,
		DayIntensity: day.Intensity,
	}), nil
}

// stageSets expands a prescription into the staged sets of a new session:
// warm-up ramp first, then the working sets (set-by-set when the
// prescription carries per-set derivations).
func stageSets(prescription progression.Prescription, tempo string) []models.StagedSet {
	var sets []models.StagedSet
	index := 1

	for _, w := range prescription.Warmup {
		sets = append(sets, models.StagedSet{
			SetIndex:         index,
			SetType:          models.SetTypeWarmup,
			PrescribedReps:   w.Reps,
			PrescribedWeight: w.Weight,
			Tempo:            tempo,
		})
		index++
	}

	if len(prescription.PerSet) > 0 {
		for i, p := range prescription.PerSet {
			setType := models.SetTypeBackoff
			if i == 0 {
				setType = models.SetTypeTopSet
			}
			sets = append(sets, models.StagedSet{
				SetIndex:         index,
				SetType:          setType,
				PrescribedReps:   p.Reps,
				PrescribedWeight: p.Weight,
				PrescribedRPE:    prescription.TargetRPE,
				Tempo:            tempo,
			})
			index++
		}
		return sets
	}

	for i := 0; i < prescription.Sets; i++ {
		sets = append(sets, models.StagedSet{
			SetIndex:         index,
			SetType:          models.SetTypeNormal,
			PrescribedReps:   prescription.Reps,
			PrescribedWeight: prescription.Weight,
			PrescribedRPE:    prescription.TargetRPE,
			Tempo:            tempo,
		})
		index++
	}
	return sets
}

var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// sortedKeys returns a frequency map's keys in alphabetical order so report
// output is stable across runs.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
