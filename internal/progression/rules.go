package progression

import (
	"encoding/json"
	"fmt"
)

// Kind tags each progression rule variant.
type Kind string

const (
	KindLinearProgression Kind = "linear_progression"
	KindDoubleProgression Kind = "double_progression"
	KindTopSetBackoff     Kind = "top_set_backoff"
	KindRpeTarget         Kind = "rpe_target"
	KindPlannedDeload     Kind = "planned_deload"
	KindWeeklyUndulation  Kind = "weekly_undulation"
	KindCustomWarmup      Kind = "custom_warmup"
)

type Frequency string

const (
	FrequencySession Frequency = "session"
	FrequencyWeek    Frequency = "week"
)

type BackoffType string

const (
	BackoffPercentage BackoffType = "percentage"
	BackoffWeight     BackoffType = "weight"
)

// Intensity is the designated load level of a program day.
type Intensity string

const (
	IntensityHeavy  Intensity = "heavy"
	IntensityMedium Intensity = "medium"
	IntensityLight  Intensity = "light"
)

type MissAction string

const (
	MissReduce   MissAction = "reduce"
	MissDeload   MissAction = "deload"
	MissMaintain MissAction = "maintain"
)

// MissHandling is the optional fallback a rule applies when the last
// performance came up short of the prescription.
type MissHandling struct {
	Action          MissAction `json:"action" validate:"required,oneof=reduce deload maintain"`
	ReductionAmount *float32   `json:"reduction_amount,omitempty" validate:"required_if=Action reduce,omitempty,gt=0"`
}

// Rule is one progression rule variant. Rules are validated at construction
// time and never re-validated on read.
type Rule interface {
	Kind() Kind
	Validate() error
}

type LinearProgression struct {
	Increment float32       `json:"increment" validate:"gt=0"`
	Cap       *float32      `json:"cap,omitempty" validate:"omitempty,gt=0"`
	Frequency Frequency     `json:"frequency" validate:"required,oneof=session week"`
	Miss      *MissHandling `json:"miss,omitempty"`
}

func (r LinearProgression) Kind() Kind { return KindLinearProgression }

type DoubleProgression struct {
	RepsMin         int           `json:"reps_min" validate:"gte=1"`
	RepsMax         int           `json:"reps_max" validate:"gtfield=RepsMin"`
	WeightIncrement float32       `json:"weight_increment" validate:"gt=0"`
	Miss            *MissHandling `json:"miss,omitempty"`
}

func (r DoubleProgression) Kind() Kind { return KindDoubleProgression }

type TopSetBackoff struct {
	TopSetReps             int         `json:"top_set_reps" validate:"gte=1"`
	BackoffSets            int         `json:"backoff_sets" validate:"gte=1"`
	BackoffReps            int         `json:"backoff_reps" validate:"gte=1"`
	BackoffType            BackoffType `json:"backoff_type" validate:"required,oneof=percentage weight"`
	BackoffPercentage      *float32    `json:"backoff_percentage,omitempty" validate:"required_if=BackoffType percentage,omitempty,gte=1,lte=100"`
	BackoffWeightReduction *float32    `json:"backoff_weight_reduction,omitempty" validate:"required_if=BackoffType weight,omitempty,gt=0"`
}

func (r TopSetBackoff) Kind() Kind { return KindTopSetBackoff }

type RpeTarget struct {
	TargetRPE      float32       `json:"target_rpe" validate:"gte=1,lte=10"`
	Tolerance      float32       `json:"tolerance" validate:"gte=0,lte=9"`
	WeightIncrease float32       `json:"weight_increase" validate:"gt=0"`
	WeightDecrease float32       `json:"weight_decrease" validate:"gt=0"`
	Miss           *MissHandling `json:"miss,omitempty"`
}

func (r RpeTarget) Kind() Kind { return KindRpeTarget }

type PlannedDeload struct {
	FrequencyWeeks int           `json:"frequency_weeks" validate:"gte=1"`
	Percentage     float32       `json:"percentage" validate:"gte=1,lte=100"`
	Miss           *MissHandling `json:"miss,omitempty"`
}

func (r PlannedDeload) Kind() Kind { return KindPlannedDeload }

type WeeklyUndulation struct {
	HeavyPercentage  float32 `json:"heavy_percentage" validate:"gte=1,lte=100"`
	MediumPercentage float32 `json:"medium_percentage" validate:"gte=1,lte=100"`
	LightPercentage  float32 `json:"light_percentage" validate:"gte=1,lte=100"`
}

func (r WeeklyUndulation) Kind() Kind { return KindWeeklyUndulation }

type WarmupStep struct {
	Reps       int     `json:"reps" validate:"gte=1"`
	Percentage float32 `json:"percentage" validate:"gte=1,lte=100"`
}

type CustomWarmup struct {
	Steps []WarmupStep `json:"steps" validate:"min=1,dive"`
}

func (r CustomWarmup) Kind() Kind { return KindCustomWarmup }

// UnknownRule carries a rule tag this build does not know about. It survives
// decode/encode round-trips untouched and is skipped by the evaluator.
type UnknownRule struct {
	Type Kind
	Raw  json.RawMessage
}

func (r UnknownRule) Kind() Kind { return r.Type }

func (r UnknownRule) Validate() error {
	return &ValidationError{Field: "type", Msg: fmt.Sprintf("unknown rule type %q", r.Type)}
}

// RuleList is an ordered list of rules. Order is semantically meaningful:
// the evaluator applies rules in sequence, and round-trips must preserve it.
type RuleList []Rule

type ruleEnvelope struct {
	Type   Kind            `json:"type"`
	Params json.RawMessage `json:"params"`
}

func (l RuleList) MarshalJSON() ([]byte, error) {
	envelopes := make([]ruleEnvelope, 0, len(l))
	for i, rule := range l {
		var params json.RawMessage
		if unknown, ok := rule.(UnknownRule); ok {
			params = unknown.Raw
		} else {
			data, err := json.Marshal(rule)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal rule %d: %w", i, err)
			}
			params = data
		}
		envelopes = append(envelopes, ruleEnvelope{Type: rule.Kind(), Params: params})
	}
	return json.Marshal(envelopes)
}

func (l *RuleList) UnmarshalJSON(data []byte) error {
	var envelopes []ruleEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return fmt.Errorf("failed to decode rule list: %w", err)
	}

	rules := make(RuleList, 0, len(envelopes))
	for i, env := range envelopes {
		rule, err := decodeRule(env)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}
	*l = rules
	return nil
}

func decodeRule(env ruleEnvelope) (Rule, error) {
	switch env.Type {
	case KindLinearProgression:
		var r LinearProgression
		err := json.Unmarshal(env.Params, &r)
		return r, err
	case KindDoubleProgression:
		var r DoubleProgression
		err := json.Unmarshal(env.Params, &r)
		return r, err
	case KindTopSetBackoff:
		var r TopSetBackoff
		err := json.Unmarshal(env.Params, &r)
		return r, err
	case KindRpeTarget:
		var r RpeTarget
		err := json.Unmarshal(env.Params, &r)
		return r, err
	case KindPlannedDeload:
		var r PlannedDeload
		err := json.Unmarshal(env.Params, &r)
		return r, err
	case KindWeeklyUndulation:
		var r WeeklyUndulation
		err := json.Unmarshal(env.Params, &r)
		return r, err
	case KindCustomWarmup:
		var r CustomWarmup
		err := json.Unmarshal(env.Params, &r)
		return r, err
	default:
		// Keep the raw payload so persisted data written by a newer build
		// is not lost on the next save.
		return UnknownRule{Type: env.Type, Raw: env.Params}, nil
	}
}

// Append validates the rule and appends it to the list.
func (l RuleList) Append(rule Rule) (RuleList, error) {
	if err := rule.Validate(); err != nil {
		return l, err
	}
	return append(l, rule), nil
}

// RemoveAt removes the rule at the given index. Rules are addressed by
// position, never by identity.
func (l RuleList) RemoveAt(index int) (RuleList, error) {
	if index < 0 || index >= len(l) {
		return l, fmt.Errorf("rule index %d out of range [0, %d)", index, len(l))
	}
	out := make(RuleList, 0, len(l)-1)
	out = append(out, l[:index]...)
	out = append(out, l[index+1:]...)
	return out, nil
}

// ValidateAll validates every rule, reporting the first violation with its
// position.
func (l RuleList) ValidateAll() error {
	for i, rule := range l {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("rule %d (%s): %w", i, rule.Kind(), err)
		}
	}
	return nil
}
