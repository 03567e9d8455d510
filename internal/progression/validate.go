package progression

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError reports a single malformed rule parameter. Field names use
// the rule's JSON naming.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func structError(rule any) error {
	err := validate.Struct(rule)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	// Report the first violation with a field-level identifier.
	first := verrs[0]
	return &ValidationError{
		Field: fieldName(first.StructField()),
		Msg:   fmt.Sprintf("failed %q constraint", first.Tag()),
	}
}

// fieldName converts a Go struct field name to its snake_case JSON form.
func fieldName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(field[i-1] >= 'A' && field[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (r LinearProgression) Validate() error {
	return structError(r)
}

func (r DoubleProgression) Validate() error {
	return structError(r)
}

func (r TopSetBackoff) Validate() error {
	if err := structError(r); err != nil {
		return err
	}
	// The backoff type gates which parameter may be set: exactly one,
	// matching the type.
	switch r.BackoffType {
	case BackoffPercentage:
		if r.BackoffWeightReduction != nil {
			return &ValidationError{
				Field: "backoff_weight_reduction",
				Msg:   "not allowed when backoff_type is percentage",
			}
		}
	case BackoffWeight:
		if r.BackoffPercentage != nil {
			return &ValidationError{
				Field: "backoff_percentage",
				Msg:   "not allowed when backoff_type is weight",
			}
		}
	}
	return nil
}

func (r RpeTarget) Validate() error {
	return structError(r)
}

func (r PlannedDeload) Validate() error {
	return structError(r)
}

func (r WeeklyUndulation) Validate() error {
	return structError(r)
}

func (r CustomWarmup) Validate() error {
	if len(r.Steps) == 0 {
		return &ValidationError{Field: "steps", Msg: "at least one warm-up step is required"}
	}
	return structError(r)
}
