package models

import (
	"time"

	"github.com/ptstack/ptstack/internal/progression"
)

// Program is a named, owned, versioned workout template.
type Program struct {
	ID          string           `json:"id"`
	OwnerID     string           `json:"owner_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	Versions    []ProgramVersion `json:"versions,omitempty"`
}

// ProgramVersion is a snapshot of a program's training days. At most one
// version per program is active at any time.
type ProgramVersion struct {
	ID            string       `json:"id"`
	ProgramID     string       `json:"program_id"`
	VersionNumber int          `json:"version_number"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	Days          []ProgramDay `json:"days,omitempty"`
}

type ProgramDay struct {
	ID        string                `json:"id"`
	VersionID string                `json:"version_id"`
	Name      string                `json:"name"`
	DayOrder  int                   `json:"day_order"`
	Intensity progression.Intensity `json:"intensity,omitempty"`
	Exercises []ProgramDayExercise  `json:"exercises,omitempty"`
}

// ProgramDayExercise is one planned exercise with its prescription defaults
// and an ordered list of progression rules.
type ProgramDayExercise struct {
	ID          string               `json:"id"`
	DayID       string               `json:"day_id"`
	ExerciseID  string               `json:"exercise_id"`
	OrderIndex  int                  `json:"order_index"`
	Sets        int                  `json:"sets"`
	RepsMin     int                  `json:"reps_min"`
	RepsMax     int                  `json:"reps_max"`
	TargetRPE   *float32             `json:"target_rpe,omitempty"`
	RestSeconds int                  `json:"rest_seconds"`
	Tempo       string               `json:"tempo,omitempty"`
	StartWeight float32              `json:"start_weight"`
	Rules       progression.RuleList `json:"rules,omitempty"`
}

//
// For TOML parsing only
//

type ProgramTOML struct {
	Name        string           `toml:"name"`
	Description string           `toml:"description"`
	Days        []ProgramDayTOML `toml:"day"`
}

type ProgramDayTOML struct {
	Name      string            `toml:"name"`
	Intensity string            `toml:"intensity"`
	Exercises []DayExerciseTOML `toml:"exercise"`
}

type DayExerciseTOML struct {
	Name        string     `toml:"name"`
	Sets        int        `toml:"sets"`
	RepsMin     int        `toml:"reps_min"`
	RepsMax     int        `toml:"reps_max"`
	TargetRPE   *float32   `toml:"target_rpe,omitempty"`
	RestSeconds int        `toml:"rest_seconds"`
	Tempo       string     `toml:"tempo,omitempty"`
	StartWeight float32    `toml:"start_weight"`
	Rules       []RuleTOML `toml:"rule"`
}

// RuleTOML is the flattened TOML form of a progression rule; Build converts
// it to the typed variant and validates it.
type RuleTOML struct {
	Type string `toml:"type"`

	Increment *float32 `toml:"increment,omitempty"`
	Cap       *float32 `toml:"cap,omitempty"`
	Frequency string   `toml:"frequency,omitempty"`

	RepsMin         *int     `toml:"reps_min,omitempty"`
	RepsMax         *int     `toml:"reps_max,omitempty"`
	WeightIncrement *float32 `toml:"weight_increment,omitempty"`

	TopSetReps             *int     `toml:"top_set_reps,omitempty"`
	BackoffSets            *int     `toml:"backoff_sets,omitempty"`
	BackoffReps            *int     `toml:"backoff_reps,omitempty"`
	BackoffType            string   `toml:"backoff_type,omitempty"`
	BackoffPercentage      *float32 `toml:"backoff_percentage,omitempty"`
	BackoffWeightReduction *float32 `toml:"backoff_weight_reduction,omitempty"`

	TargetRPE      *float32 `toml:"target_rpe,omitempty"`
	Tolerance      *float32 `toml:"tolerance,omitempty"`
	WeightIncrease *float32 `toml:"weight_increase,omitempty"`
	WeightDecrease *float32 `toml:"weight_decrease,omitempty"`

	FrequencyWeeks *int     `toml:"frequency_weeks,omitempty"`
	Percentage     *float32 `toml:"percentage,omitempty"`

	HeavyPercentage  *float32 `toml:"heavy_percentage,omitempty"`
	MediumPercentage *float32 `toml:"medium_percentage,omitempty"`
	LightPercentage  *float32 `toml:"light_percentage,omitempty"`

	WarmupSteps []WarmupStepTOML `toml:"warmup_step,omitempty"`

	MissAction          string   `toml:"miss_action,omitempty"`
	MissReductionAmount *float32 `toml:"miss_reduction_amount,omitempty"`
}

type WarmupStepTOML struct {
	Reps       int     `toml:"reps"`
	Percentage float32 `toml:"percentage"`
}

func (t RuleTOML) miss() *progression.MissHandling {
	if t.MissAction == "" {
		return nil
	}
	return &progression.MissHandling{
		Action:          progression.MissAction(t.MissAction),
		ReductionAmount: t.MissReductionAmount,
	}
}

// Build converts the TOML form into a validated rule.
func (t RuleTOML) Build() (progression.Rule, error) {
	var rule progression.Rule

	switch progression.Kind(t.Type) {
	case progression.KindLinearProgression:
		rule = progression.LinearProgression{
			Increment: deref(t.Increment),
			Cap:       t.Cap,
			Frequency: progression.Frequency(t.Frequency),
			Miss:      t.miss(),
		}
	case progression.KindDoubleProgression:
		rule = progression.DoubleProgression{
			RepsMin:         deref(t.RepsMin),
			RepsMax:         deref(t.RepsMax),
			WeightIncrement: deref(t.WeightIncrement),
			Miss:            t.miss(),
		}
	case progression.KindTopSetBackoff:
		rule = progression.TopSetBackoff{
			TopSetReps:             deref(t.TopSetReps),
			BackoffSets:            deref(t.BackoffSets),
			BackoffReps:            deref(t.BackoffReps),
			BackoffType:            progression.BackoffType(t.BackoffType),
			BackoffPercentage:      t.BackoffPercentage,
			BackoffWeightReduction: t.BackoffWeightReduction,
		}
	case progression.KindRpeTarget:
		rule = progression.RpeTarget{
			TargetRPE:      deref(t.TargetRPE),
			Tolerance:      deref(t.Tolerance),
			WeightIncrease: deref(t.WeightIncrease),
			WeightDecrease: deref(t.WeightDecrease),
			Miss:           t.miss(),
		}
	case progression.KindPlannedDeload:
		rule = progression.PlannedDeload{
			FrequencyWeeks: deref(t.FrequencyWeeks),
			Percentage:     deref(t.Percentage),
			Miss:           t.miss(),
		}
	case progression.KindWeeklyUndulation:
		rule = progression.WeeklyUndulation{
			HeavyPercentage:  deref(t.HeavyPercentage),
			MediumPercentage: deref(t.MediumPercentage),
			LightPercentage:  deref(t.LightPercentage),
		}
	case progression.KindCustomWarmup:
		steps := make([]progression.WarmupStep, 0, len(t.WarmupSteps))
		for _, s := range t.WarmupSteps {
			steps = append(steps, progression.WarmupStep{Reps: s.Reps, Percentage: s.Percentage})
		}
		rule = progression.CustomWarmup{Steps: steps}
	default:
		return nil, &progression.ValidationError{
			Field: "type",
			Msg:   "unknown rule type " + t.Type,
		}
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
