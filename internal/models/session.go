package models

import (
	"fmt"
	"time"
)

const (
	SetTypeNormal  = "normal"
	SetTypeWarmup  = "warmup"
	SetTypeTopSet  = "top_set"
	SetTypeBackoff = "backoff"
)

// TrainingSession is one workout instance for a user. CompletedAt nil means
// the session is not finished. DeletedAt marks a recoverable soft delete.
type TrainingSession struct {
	ID               string            `json:"id"`
	UserID           string            `json:"user_id"`
	ProgramVersionID string            `json:"program_version_id,omitempty"`
	ProgramDayID     string            `json:"program_day_id,omitempty"`
	LoggedBy         string            `json:"logged_by,omitempty"`
	ScheduledDate    *time.Time        `json:"scheduled_date,omitempty"`
	StartTime        time.Time         `json:"start_time"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	DeletedAt        *time.Time        `json:"deleted_at,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Exercises        []SessionExercise `json:"exercises,omitempty"`
}

// Complete marks the session finished at the given time.
func (s *TrainingSession) Complete(at time.Time) error {
	if at.Before(s.StartTime) {
		return fmt.Errorf("completion time %s precedes session start %s", at, s.StartTime)
	}
	s.CompletedAt = &at
	return nil
}

// SessionExercise is one exercise performed within a session. Exactly one of
// Exercise/Custom must be set; a nil pair means the reference is no longer
// resolvable and aggregation excludes the entry.
type SessionExercise struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	Exercise      *Exercise       `json:"exercise,omitempty"`
	Custom        *CustomExercise `json:"custom_exercise,omitempty"`
	OrderIndex    int             `json:"order_index"`
	SupersetGroup string          `json:"superset_group,omitempty"`
	Sets          []SessionSet    `json:"sets,omitempty"`
}

// MuscleGroup resolves the primary muscle through whichever exercise
// reference is set.
func (se *SessionExercise) MuscleGroup() (string, bool) {
	switch {
	case se.Exercise != nil && se.Exercise.PrimaryMuscle != "":
		return se.Exercise.PrimaryMuscle, true
	case se.Custom != nil && se.Custom.PrimaryMuscle != "":
		return se.Custom.PrimaryMuscle, true
	}
	return "", false
}

func (se *SessionExercise) Category() (string, bool) {
	switch {
	case se.Exercise != nil && se.Exercise.Category != "":
		return se.Exercise.Category, true
	case se.Custom != nil && se.Custom.Category != "":
		return se.Custom.Category, true
	}
	return "", false
}

func (se *SessionExercise) Name() string {
	switch {
	case se.Exercise != nil:
		return se.Exercise.Name
	case se.Custom != nil:
		return se.Custom.Name
	}
	return ""
}

// SessionSet is one set within a session exercise.
type SessionSet struct {
	ID                string     `json:"id"`
	SessionExerciseID string     `json:"session_exercise_id"`
	SetIndex          int        `json:"set_index"`
	SetType           string     `json:"set_type"`
	PrescribedReps    int        `json:"prescribed_reps"`
	PrescribedWeight  float32    `json:"prescribed_weight"`
	PrescribedRPE     *float32   `json:"prescribed_rpe,omitempty"`
	PerformedReps     int        `json:"performed_reps"`
	PerformedWeight   float32    `json:"performed_weight"`
	PerformedRPE      *float32   `json:"performed_rpe,omitempty"`
	PerformedSeconds  int        `json:"performed_seconds,omitempty"`
	Tempo             string     `json:"tempo,omitempty"`
	Completed         bool       `json:"completed"`
	AsPrescribed      bool       `json:"completed_as_prescribed"`
	Skipped           bool       `json:"skipped"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// MatchesPrescription reports whether performed values exactly equal the
// prescribed ones. Only then may AsPrescribed be set.
func (s *SessionSet) MatchesPrescription() bool {
	if s.PerformedReps != s.PrescribedReps || s.PerformedWeight != s.PrescribedWeight {
		return false
	}
	if s.PrescribedRPE == nil {
		return s.PerformedRPE == nil
	}
	return s.PerformedRPE != nil && *s.PerformedRPE == *s.PrescribedRPE
}

// CountsForVolume reports whether the set contributes to volume and PR
// calculations: completed and not skipped.
func (s *SessionSet) CountsForVolume() bool {
	return s.Completed && !s.Skipped
}
