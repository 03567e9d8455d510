package models

import "time"

// SessionState is the staged, in-progress session kept in a local TOML file
// until end-session commits it to the database.
type SessionState struct {
	SessionID     string           `toml:"session_id"`
	UserID        string           `toml:"user_id"`
	LoggedBy      string           `toml:"logged_by,omitempty"`
	ProgramName   string           `toml:"program_name,omitempty"`
	VersionID     string           `toml:"version_id,omitempty"`
	VersionNumber int              `toml:"version_number,omitempty"`
	DayID         string           `toml:"day_id,omitempty"`
	DayName       string           `toml:"day_name,omitempty"`
	Intensity     string           `toml:"intensity,omitempty"`
	WeekNumber    int              `toml:"week,omitempty"`
	StartTime     time.Time        `toml:"start_time"`
	Notes         string           `toml:"notes,omitempty"`
	Exercises     []StagedExercise `toml:"exercises"`
}

type StagedExercise struct {
	ExerciseID       string      `toml:"exercise_id,omitempty"`
	CustomExerciseID string      `toml:"custom_exercise_id,omitempty"`
	Name             string      `toml:"name"`
	OrderIndex       int         `toml:"order_index"`
	SupersetGroup    string      `toml:"superset_group,omitempty"`
	Sets             []StagedSet `toml:"sets"`
}

type StagedSet struct {
	SetIndex         int        `toml:"set_index"`
	SetType          string     `toml:"set_type"`
	PrescribedReps   int        `toml:"prescribed_reps"`
	PrescribedWeight float32    `toml:"prescribed_weight"`
	PrescribedRPE    *float32   `toml:"prescribed_rpe,omitempty"`
	PerformedReps    int        `toml:"performed_reps"`
	PerformedWeight  float32    `toml:"performed_weight"`
	PerformedRPE     *float32   `toml:"performed_rpe,omitempty"`
	PerformedSeconds int        `toml:"performed_seconds,omitempty"`
	Tempo            string     `toml:"tempo,omitempty"`
	Completed        bool       `toml:"completed"`
	Skipped          bool       `toml:"skipped"`
	CompletedAt      *time.Time `toml:"completed_at,omitempty"`
}
