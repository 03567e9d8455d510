package progression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptstack/ptstack/internal/progression"
)

func perfAllSets(prescribedReps int, weight float32, reps ...int) *progression.Performance {
	p := &progression.Performance{
		PrescribedReps:   prescribedReps,
		PrescribedWeight: weight,
	}
	for _, r := range reps {
		p.Sets = append(p.Sets, progression.SetPerformance{
			Reps:      r,
			Weight:    weight,
			Completed: true,
		})
	}
	return p
}

func TestEvaluateLinearProgression(t *testing.T) {
	prior := progression.Prescription{Sets: 3, Reps: 5, Weight: 100}

	t.Run("per session adds the increment", func(t *testing.T) {
		rules := progression.RuleList{
			progression.LinearProgression{Increment: 2.5, Frequency: progression.FrequencySession},
		}
		next := progression.Evaluate(rules, prior, perfAllSets(5, 100, 5, 5, 5), progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(102.5), next.Weight)
		assert.Equal(t, 5, next.Reps)
	})

	t.Run("cap bounds the proposal", func(t *testing.T) {
		rules := progression.RuleList{
			progression.LinearProgression{Increment: 2.5, Cap: floatPtr(101), Frequency: progression.FrequencySession},
		}
		next := progression.Evaluate(rules, prior, perfAllSets(5, 100, 5, 5, 5), progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(101), next.Weight)
	})

	t.Run("uncapped still has a ceiling", func(t *testing.T) {
		heavy := progression.Prescription{Sets: 3, Reps: 5, Weight: 599}
		rules := progression.RuleList{
			progression.LinearProgression{Increment: 2.5, Frequency: progression.FrequencySession},
		}
		next := progression.Evaluate(rules, heavy, perfAllSets(5, 599, 5, 5, 5), progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(600), next.Weight)
	})

	t.Run("weekly frequency waits for a new week", func(t *testing.T) {
		rules := progression.RuleList{
			progression.LinearProgression{Increment: 5, Frequency: progression.FrequencyWeek},
		}
		perf := perfAllSets(5, 100, 5, 5, 5)

		same := progression.Evaluate(rules, prior, perf, progression.Context{WeekNumber: 2, NewWeek: false})
		assert.Equal(t, float32(100), same.Weight)

		fresh := progression.Evaluate(rules, prior, perf, progression.Context{WeekNumber: 3, NewWeek: true})
		assert.Equal(t, float32(105), fresh.Weight)
	})

	t.Run("no recorded performance still progresses", func(t *testing.T) {
		rules := progression.RuleList{
			progression.LinearProgression{Increment: 2.5, Frequency: progression.FrequencySession},
		}
		next := progression.Evaluate(rules, prior, nil, progression.Context{WeekNumber: 1})
		assert.Equal(t, float32(102.5), next.Weight)
	})
}

func TestEvaluateMissHandling(t *testing.T) {
	prior := progression.Prescription{Sets: 3, Reps: 5, Weight: 100}
	missedPerf := perfAllSets(5, 100, 5, 4, 5)

	t.Run("reduce subtracts the configured amount", func(t *testing.T) {
		rules := progression.RuleList{
			progression.LinearProgression{
				Increment: 2.5,
				Frequency: progression.FrequencySession,
				Miss:      &progression.MissHandling{Action: progression.MissReduce, ReductionAmount: floatPtr(5)},
			},
		}
		next := progression.Evaluate(rules, prior, missedPerf, progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(95), next.Weight)
	})

	t.Run("deload takes ninety percent", func(t *testing.T) {
		rules := progression.RuleList{
			progression.LinearProgression{
				Increment: 2.5,
				Frequency: progression.FrequencySession,
				Miss:      &progression.MissHandling{Action: progression.MissDeload},
			},
		}
		next := progression.Evaluate(rules, prior, missedPerf, progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(90), next.Weight)
	})

	t.Run("maintain holds the prescription", func(t *testing.T) {
		rules := progression.RuleList{
			progression.LinearProgression{
				Increment: 2.5,
				Frequency: progression.FrequencySession,
				Miss:      &progression.MissHandling{Action: progression.MissMaintain},
			},
		}
		next := progression.Evaluate(rules, prior, missedPerf, progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(100), next.Weight)
	})

	t.Run("all sets skipped counts as a miss", func(t *testing.T) {
		rules := progression.RuleList{
			progression.LinearProgression{
				Increment: 2.5,
				Frequency: progression.FrequencySession,
				Miss:      &progression.MissHandling{Action: progression.MissMaintain},
			},
		}
		perf := &progression.Performance{
			PrescribedReps:   5,
			PrescribedWeight: 100,
			Sets: []progression.SetPerformance{
				{Reps: 5, Weight: 100, Skipped: true},
				{Reps: 5, Weight: 100, Skipped: true},
			},
		}
		next := progression.Evaluate(rules, prior, perf, progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(100), next.Weight)
	})
}

func TestEvaluateDoubleProgression(t *testing.T) {
	rules := progression.RuleList{
		progression.DoubleProgression{RepsMin: 8, RepsMax: 12, WeightIncrement: 2.5},
	}
	prior := progression.Prescription{Sets: 3, Reps: 12, Weight: 60}

	t.Run("top of range on every set resets reps and adds weight", func(t *testing.T) {
		next := progression.Evaluate(rules, prior, perfAllSets(12, 60, 12, 12, 12), progression.Context{WeekNumber: 2})
		assert.Equal(t, 8, next.Reps)
		assert.Equal(t, float32(62.5), next.Weight)
	})

	t.Run("partial sets at the top leave the prescription alone", func(t *testing.T) {
		next := progression.Evaluate(rules, prior, perfAllSets(12, 60, 10, 11, 12), progression.Context{WeekNumber: 2})
		assert.Equal(t, 12, next.Reps)
		assert.Equal(t, float32(60), next.Weight)
	})

	t.Run("mid range hit stays on reps climbing", func(t *testing.T) {
		midPrior := progression.Prescription{Sets: 3, Reps: 10, Weight: 60}
		next := progression.Evaluate(rules, midPrior, perfAllSets(10, 60, 10, 10, 11), progression.Context{WeekNumber: 2})
		assert.Equal(t, 10, next.Reps)
		assert.Equal(t, float32(60), next.Weight)
	})
}

func TestEvaluateRpeTarget(t *testing.T) {
	rules := progression.RuleList{
		progression.RpeTarget{TargetRPE: 8, Tolerance: 0.5, WeightIncrease: 2.5, WeightDecrease: 5},
	}
	prior := progression.Prescription{Sets: 3, Reps: 5, Weight: 100}

	withRPE := func(rpe float32) *progression.Performance {
		p := perfAllSets(5, 100, 5, 5, 5)
		for i := range p.Sets {
			p.Sets[i].RPE = floatPtr(rpe)
		}
		return p
	}

	t.Run("too hard backs off", func(t *testing.T) {
		next := progression.Evaluate(rules, prior, withRPE(9.5), progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(95), next.Weight)
	})

	t.Run("too easy adds weight", func(t *testing.T) {
		next := progression.Evaluate(rules, prior, withRPE(6.5), progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(102.5), next.Weight)
	})

	t.Run("inside the band holds", func(t *testing.T) {
		next := progression.Evaluate(rules, prior, withRPE(8.3), progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(100), next.Weight)
	})

	t.Run("no recorded rpe holds", func(t *testing.T) {
		next := progression.Evaluate(rules, prior, perfAllSets(5, 100, 5, 5, 5), progression.Context{WeekNumber: 2})
		assert.Equal(t, float32(100), next.Weight)
	})
}

func TestEvaluatePlannedDeloadCadence(t *testing.T) {
	rules := progression.RuleList{
		progression.PlannedDeload{FrequencyWeeks: 4, Percentage: 60},
	}
	prior := progression.Prescription{Sets: 3, Reps: 5, Weight: 100}
	perf := perfAllSets(5, 100, 5, 5, 5)

	for week := 1; week <= 12; week++ {
		next := progression.Evaluate(rules, prior, perf, progression.Context{WeekNumber: week})
		if week%4 == 0 {
			assert.Equal(t, float32(60), next.Weight, "week %d should deload", week)
		} else {
			assert.Equal(t, float32(100), next.Weight, "week %d should not deload", week)
		}
	}
}

func TestEvaluateTopSetBackoff(t *testing.T) {
	prior := progression.Prescription{Sets: 3, Reps: 5, Weight: 100}

	t.Run("percentage backoff", func(t *testing.T) {
		rules := progression.RuleList{
			progression.TopSetBackoff{
				TopSetReps:        3,
				BackoffSets:       2,
				BackoffReps:       5,
				BackoffType:       progression.BackoffPercentage,
				BackoffPercentage: floatPtr(10),
			},
		}
		next := progression.Evaluate(rules, prior, nil, progression.Context{WeekNumber: 1})
		require.Len(t, next.PerSet, 3)
		assert.Equal(t, 3, next.Sets)
		assert.Equal(t, progression.SetPrescription{Reps: 3, Weight: 100}, next.PerSet[0])
		assert.Equal(t, progression.SetPrescription{Reps: 5, Weight: 90}, next.PerSet[1])
		assert.Equal(t, progression.SetPrescription{Reps: 5, Weight: 90}, next.PerSet[2])
	})

	t.Run("fixed weight backoff", func(t *testing.T) {
		rules := progression.RuleList{
			progression.TopSetBackoff{
				TopSetReps:             1,
				BackoffSets:            3,
				BackoffReps:            5,
				BackoffType:            progression.BackoffWeight,
				BackoffWeightReduction: floatPtr(20),
			},
		}
		next := progression.Evaluate(rules, prior, nil, progression.Context{WeekNumber: 1})
		require.Len(t, next.PerSet, 4)
		assert.Equal(t, progression.SetPrescription{Reps: 1, Weight: 100}, next.PerSet[0])
		assert.Equal(t, progression.SetPrescription{Reps: 5, Weight: 80}, next.PerSet[1])
	})

	t.Run("derives from the weight an earlier rule advanced", func(t *testing.T) {
		rules := progression.RuleList{
			progression.LinearProgression{Increment: 2.5, Frequency: progression.FrequencySession},
			progression.TopSetBackoff{
				TopSetReps:        3,
				BackoffSets:       1,
				BackoffReps:       5,
				BackoffType:       progression.BackoffPercentage,
				BackoffPercentage: floatPtr(10),
			},
		}
		next := progression.Evaluate(rules, prior, perfAllSets(5, 100, 5, 5, 5), progression.Context{WeekNumber: 2})
		require.Len(t, next.PerSet, 2)
		assert.Equal(t, float32(102.5), next.PerSet[0].Weight)
		assert.InDelta(t, 92.25, float64(next.PerSet[1].Weight), 0.01)
	})
}

func TestEvaluateWeeklyUndulation(t *testing.T) {
	rules := progression.RuleList{
		progression.WeeklyUndulation{HeavyPercentage: 100, MediumPercentage: 90, LightPercentage: 80},
	}
	prior := progression.Prescription{Sets: 3, Reps: 5, Weight: 100}

	testCases := []struct {
		intensity progression.Intensity
		want      float32
	}{
		{progression.IntensityHeavy, 100},
		{progression.IntensityMedium, 90},
		{progression.IntensityLight, 80},
	}
	for _, tc := range testCases {
		next := progression.Evaluate(rules, prior, nil, progression.Context{WeekNumber: 1, DayIntensity: tc.intensity})
		assert.Equal(t, tc.want, next.Weight, "intensity %s", tc.intensity)
	}
}

func TestEvaluateCustomWarmup(t *testing.T) {
	rules := progression.RuleList{
		progression.CustomWarmup{Steps: []progression.WarmupStep{
			{Reps: 5, Percentage: 50},
			{Reps: 3, Percentage: 70},
		}},
	}
	prior := progression.Prescription{Sets: 3, Reps: 5, Weight: 100}

	next := progression.Evaluate(rules, prior, nil, progression.Context{WeekNumber: 1})
	require.Len(t, next.Warmup, 2)
	assert.Equal(t, progression.SetPrescription{Reps: 5, Weight: 50}, next.Warmup[0])
	assert.Equal(t, progression.SetPrescription{Reps: 3, Weight: 70}, next.Warmup[1])
	assert.Equal(t, float32(100), next.Weight)
}

func TestEvaluateSkipsUnknownRules(t *testing.T) {
	rules := progression.RuleList{
		progression.UnknownRule{Type: "velocity_based", Raw: []byte(`{"min_speed":0.25}`)},
		progression.LinearProgression{Increment: 2.5, Frequency: progression.FrequencySession},
	}
	prior := progression.Prescription{Sets: 3, Reps: 5, Weight: 100}

	next := progression.Evaluate(rules, prior, perfAllSets(5, 100, 5, 5, 5), progression.Context{WeekNumber: 2})
	assert.Equal(t, float32(102.5), next.Weight)
}

func TestEvaluateClearsStaleDerivations(t *testing.T) {
	prior := progression.Prescription{
		Sets:   3,
		Reps:   5,
		Weight: 100,
		Warmup: []progression.SetPrescription{{Reps: 5, Weight: 50}},
		PerSet: []progression.SetPrescription{{Reps: 3, Weight: 100}},
	}
	next := progression.Evaluate(progression.RuleList{}, prior, nil, progression.Context{WeekNumber: 1})
	assert.Nil(t, next.Warmup)
	assert.Nil(t, next.PerSet)
	assert.Equal(t, float32(100), next.Weight)
}
