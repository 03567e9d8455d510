package progression

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Ceiling applied to linear progression when the rule carries no cap, so a
// fold can never run away.
const uncappedWeightCeiling float32 = 600

// Prescription is the load/reps prescription for one planned exercise on one
// session. Warmup and PerSet, when present, carry set-by-set derivations
// (warm-up ramps, top set + back-offs) on top of the working prescription.
type Prescription struct {
	Sets      int      `json:"sets"`
	Reps      int      `json:"reps"`
	Weight    float32  `json:"weight"`
	TargetRPE *float32 `json:"target_rpe,omitempty"`

	Warmup []SetPrescription `json:"warmup,omitempty"`
	PerSet []SetPrescription `json:"per_set,omitempty"`
}

type SetPrescription struct {
	Reps   int     `json:"reps"`
	Weight float32 `json:"weight"`
}

// SetPerformance is one performed set from the most recent session.
type SetPerformance struct {
	Reps      int
	Weight    float32
	RPE       *float32
	Completed bool
	Skipped   bool
}

// Performance is the most recent recorded performance against a prescription.
type Performance struct {
	PrescribedReps   int
	PrescribedWeight float32
	Sets             []SetPerformance
}

// countedSets returns the sets that count toward progression decisions:
// completed and not skipped.
func (p *Performance) countedSets() []SetPerformance {
	var out []SetPerformance
	for _, s := range p.Sets {
		if s.Completed && !s.Skipped {
			out = append(out, s)
		}
	}
	return out
}

// missed reports whether the performance fell short of the prescription: any
// counted set below the prescribed reps, or no counted sets at all.
func (p *Performance) missed() bool {
	counted := p.countedSets()
	if len(counted) == 0 {
		return true
	}
	for _, s := range counted {
		if s.Reps < p.PrescribedReps {
			return true
		}
	}
	return false
}

// allSetsReached reports whether every counted set hit at least the given
// rep count.
func (p *Performance) allSetsReached(reps int) bool {
	counted := p.countedSets()
	if len(counted) == 0 {
		return false
	}
	for _, s := range counted {
		if s.Reps < reps {
			return false
		}
	}
	return true
}

func (p *Performance) averageRPE() (float32, bool) {
	var sum float32
	var n int
	for _, s := range p.countedSets() {
		if s.RPE == nil {
			continue
		}
		sum += *s.RPE
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float32(n), true
}

// Context carries the session position the fold evaluates against.
type Context struct {
	// WeekNumber is the 1-based training week, used for deload cadence.
	WeekNumber int
	// NewWeek is true for the first session of a calendar week; weekly
	// linear progression applies only then.
	NewWeek bool
	// DayIntensity is the program day's designated load level.
	DayIntensity Intensity
}

// Evaluate computes the next prescription: a left fold over the rule list
// seeded with the prior prescription. Later rules see and may override
// earlier proposals. Unknown rule tags are skipped and logged.
func Evaluate(rules RuleList, prior Prescription, last *Performance, evalCtx Context) Prescription {
	next := prior
	next.Warmup = nil
	next.PerSet = nil

	for i, rule := range rules {
		switch r := rule.(type) {
		case LinearProgression:
			next = r.apply(next, last, evalCtx)
		case DoubleProgression:
			next = r.apply(next, last)
		case TopSetBackoff:
			next = r.apply(next)
		case RpeTarget:
			next = r.apply(next, last)
		case PlannedDeload:
			next = r.apply(next, last, evalCtx)
		case WeeklyUndulation:
			next = r.apply(next, evalCtx)
		case CustomWarmup:
			next = r.apply(next)
		default:
			logrus.WithFields(logrus.Fields{
				"rule_index": i,
				"rule_type":  rule.Kind(),
			}).Warn("skipping unknown progression rule")
		}
	}

	next.Weight = round2(next.Weight)
	return next
}

func (r LinearProgression) apply(next Prescription, last *Performance, evalCtx Context) Prescription {
	if last != nil && last.missed() {
		return applyMiss(r.Miss, next)
	}
	if r.Frequency == FrequencyWeek && !evalCtx.NewWeek {
		return next
	}

	ceiling := uncappedWeightCeiling
	if r.Cap != nil {
		ceiling = *r.Cap
	}
	next.Weight = min32(next.Weight+r.Increment, ceiling)
	return next
}

func (r DoubleProgression) apply(next Prescription, last *Performance) Prescription {
	if last == nil {
		return next
	}
	if last.missed() {
		return applyMiss(r.Miss, next)
	}
	// Progress only when every counted set reached the top of the range;
	// within the range the lifter climbs reps on the floor, not on paper.
	if last.allSetsReached(r.RepsMax) {
		next.Reps = r.RepsMin
		next.Weight += r.WeightIncrement
	}
	return next
}

func (r TopSetBackoff) apply(next Prescription) Prescription {
	top := next.Weight
	var backoff float32
	switch r.BackoffType {
	case BackoffPercentage:
		backoff = top * (1 - *r.BackoffPercentage/100)
	case BackoffWeight:
		backoff = top - *r.BackoffWeightReduction
	}
	if backoff < 0 {
		backoff = 0
	}

	perSet := make([]SetPrescription, 0, 1+r.BackoffSets)
	perSet = append(perSet, SetPrescription{Reps: r.TopSetReps, Weight: round2(top)})
	for i := 0; i < r.BackoffSets; i++ {
		perSet = append(perSet, SetPrescription{Reps: r.BackoffReps, Weight: round2(backoff)})
	}
	next.PerSet = perSet
	next.Sets = len(perSet)
	return next
}

func (r RpeTarget) apply(next Prescription, last *Performance) Prescription {
	if last == nil {
		return next
	}
	if last.missed() {
		return applyMiss(r.Miss, next)
	}
	avg, ok := last.averageRPE()
	if !ok {
		return next
	}
	switch {
	case avg > r.TargetRPE+r.Tolerance:
		next.Weight -= r.WeightDecrease
		if next.Weight < 0 {
			next.Weight = 0
		}
	case avg < r.TargetRPE-r.Tolerance:
		next.Weight += r.WeightIncrease
	}
	return next
}

func (r PlannedDeload) apply(next Prescription, last *Performance, evalCtx Context) Prescription {
	if evalCtx.WeekNumber > 0 && evalCtx.WeekNumber%r.FrequencyWeeks == 0 {
		next.Weight *= r.Percentage / 100
		return next
	}
	if last != nil && last.missed() {
		return applyMiss(r.Miss, next)
	}
	return next
}

func (r WeeklyUndulation) apply(next Prescription, evalCtx Context) Prescription {
	base := next.Weight
	switch evalCtx.DayIntensity {
	case IntensityHeavy:
		next.Weight = base * r.HeavyPercentage / 100
	case IntensityMedium:
		next.Weight = base * r.MediumPercentage / 100
	case IntensityLight:
		next.Weight = base * r.LightPercentage / 100
	}
	return next
}

func (r CustomWarmup) apply(next Prescription) Prescription {
	warmup := make([]SetPrescription, 0, len(r.Steps))
	for _, step := range r.Steps {
		warmup = append(warmup, SetPrescription{
			Reps:   step.Reps,
			Weight: round2(next.Weight * step.Percentage / 100),
		})
	}
	next.Warmup = warmup
	return next
}

func applyMiss(miss *MissHandling, next Prescription) Prescription {
	if miss == nil {
		// No miss handling on this rule: fall through unmodified.
		return next
	}
	switch miss.Action {
	case MissReduce:
		next.Weight -= *miss.ReductionAmount
		if next.Weight < 0 {
			next.Weight = 0
		}
	case MissDeload:
		next.Weight = round2(next.Weight * 0.9)
	case MissMaintain:
		// Keep the prescription as-is.
	}
	return next
}

func round2(v float32) float32 {
	return float32(math.Round(float64(v)*100) / 100)
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
