package progression_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptstack/ptstack/internal/progression"
)

func floatPtr(f float32) *float32 { return &f }

func TestRuleValidation(t *testing.T) {
	testCases := []struct {
		name      string
		rule      progression.Rule
		wantField string
	}{
		{
			name: "valid linear progression",
			rule: progression.LinearProgression{Increment: 2.5, Frequency: progression.FrequencySession},
		},
		{
			name:      "linear progression requires positive increment",
			rule:      progression.LinearProgression{Increment: 0, Frequency: progression.FrequencySession},
			wantField: "increment",
		},
		{
			name:      "linear progression requires a frequency",
			rule:      progression.LinearProgression{Increment: 2.5},
			wantField: "frequency",
		},
		{
			name: "valid double progression",
			rule: progression.DoubleProgression{RepsMin: 8, RepsMax: 12, WeightIncrement: 2.5},
		},
		{
			name:      "double progression requires reps_max above reps_min",
			rule:      progression.DoubleProgression{RepsMin: 12, RepsMax: 12, WeightIncrement: 2.5},
			wantField: "reps_max",
		},
		{
			name: "valid top set backoff with percentage",
			rule: progression.TopSetBackoff{
				TopSetReps:        3,
				BackoffSets:       2,
				BackoffReps:       5,
				BackoffType:       progression.BackoffPercentage,
				BackoffPercentage: floatPtr(10),
			},
		},
		{
			name: "top set backoff percentage type requires a percentage",
			rule: progression.TopSetBackoff{
				TopSetReps:  3,
				BackoffSets: 2,
				BackoffReps: 5,
				BackoffType: progression.BackoffPercentage,
			},
			wantField: "backoff_percentage",
		},
		{
			name: "top set backoff rejects the mismatched parameter",
			rule: progression.TopSetBackoff{
				TopSetReps:             3,
				BackoffSets:            2,
				BackoffReps:            5,
				BackoffType:            progression.BackoffPercentage,
				BackoffPercentage:      floatPtr(10),
				BackoffWeightReduction: floatPtr(20),
			},
			wantField: "backoff_weight_reduction",
		},
		{
			name: "valid rpe target",
			rule: progression.RpeTarget{TargetRPE: 8, Tolerance: 0.5, WeightIncrease: 2.5, WeightDecrease: 5},
		},
		{
			name:      "rpe target must stay within the 1-10 scale",
			rule:      progression.RpeTarget{TargetRPE: 11, Tolerance: 0.5, WeightIncrease: 2.5, WeightDecrease: 5},
			wantField: "target_rpe",
		},
		{
			name: "valid planned deload",
			rule: progression.PlannedDeload{FrequencyWeeks: 4, Percentage: 60},
		},
		{
			name:      "planned deload percentage bounded at 100",
			rule:      progression.PlannedDeload{FrequencyWeeks: 4, Percentage: 150},
			wantField: "percentage",
		},
		{
			name: "valid weekly undulation",
			rule: progression.WeeklyUndulation{HeavyPercentage: 100, MediumPercentage: 90, LightPercentage: 80},
		},
		{
			name:      "custom warmup requires steps",
			rule:      progression.CustomWarmup{},
			wantField: "steps",
		},
		{
			name: "custom warmup step percentage bounded",
			rule: progression.CustomWarmup{Steps: []progression.WarmupStep{
				{Reps: 5, Percentage: 120},
			}},
			wantField: "percentage",
		},
		{
			name: "miss handling reduce requires a reduction amount",
			rule: progression.LinearProgression{
				Increment: 2.5,
				Frequency: progression.FrequencySession,
				Miss:      &progression.MissHandling{Action: progression.MissReduce},
			},
			wantField: "reduction_amount",
		},
		{
			name: "miss handling maintain needs no amount",
			rule: progression.DoubleProgression{
				RepsMin:         8,
				RepsMax:         12,
				WeightIncrement: 2.5,
				Miss:            &progression.MissHandling{Action: progression.MissMaintain},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate()
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verr *progression.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestRuleListRoundTripPreservesOrder(t *testing.T) {
	original := progression.RuleList{
		progression.CustomWarmup{Steps: []progression.WarmupStep{
			{Reps: 5, Percentage: 50},
			{Reps: 3, Percentage: 70},
		}},
		progression.LinearProgression{Increment: 2.5, Cap: floatPtr(180), Frequency: progression.FrequencyWeek},
		progression.PlannedDeload{FrequencyWeeks: 4, Percentage: 60},
		progression.RpeTarget{TargetRPE: 8, Tolerance: 1, WeightIncrease: 2.5, WeightDecrease: 5},
	}
	require.NoError(t, original.ValidateAll())

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded progression.RuleList
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded, len(original))
	for i := range original {
		assert.Equal(t, original[i].Kind(), decoded[i].Kind(), "rule %d", i)
	}
	assert.Equal(t, original, decoded)
}

func TestRuleListUnknownTagSurvivesRoundTrip(t *testing.T) {
	raw := `[{"type":"velocity_based","params":{"min_speed":0.25}},{"type":"linear_progression","params":{"increment":2.5,"frequency":"session"}}]`

	var decoded progression.RuleList
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 2)

	unknown, ok := decoded[0].(progression.UnknownRule)
	require.True(t, ok)
	assert.Equal(t, progression.Kind("velocity_based"), unknown.Type)
	assert.Error(t, unknown.Validate())

	// The unknown payload is written back untouched.
	data, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"min_speed":0.25`)
}

func TestRuleListAppendRejectsInvalid(t *testing.T) {
	var list progression.RuleList

	list, err := list.Append(progression.LinearProgression{Increment: 2.5, Frequency: progression.FrequencySession})
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = list.Append(progression.DoubleProgression{RepsMin: 10, RepsMax: 8, WeightIncrement: 2.5})
	assert.Error(t, err)
}

func TestRuleListRemoveAt(t *testing.T) {
	list := progression.RuleList{
		progression.LinearProgression{Increment: 2.5, Frequency: progression.FrequencySession},
		progression.PlannedDeload{FrequencyWeeks: 4, Percentage: 60},
		progression.WeeklyUndulation{HeavyPercentage: 100, MediumPercentage: 90, LightPercentage: 80},
	}

	list, err := list.RemoveAt(1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, progression.KindLinearProgression, list[0].Kind())
	assert.Equal(t, progression.KindWeeklyUndulation, list[1].Kind())

	_, err = list.RemoveAt(5)
	assert.Error(t, err)
}
