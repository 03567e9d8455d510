package models

import "time"

// Exercise is a catalog exercise, shared by all users.
type Exercise struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PrimaryMuscle string    `json:"primary_muscle"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}

// CustomExercise is a user-defined exercise outside the shared catalog.
type CustomExercise struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	PrimaryMuscle string    `json:"primary_muscle"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}

type PersonalRecord struct {
	ExerciseID   string    `json:"exercise_id"`
	UserID       string    `json:"user_id"`
	Weight       float32   `json:"weight"`
	Reps         int       `json:"reps"`
	Date         time.Time `json:"date"`
	Estimated1RM float32   `json:"estimated_1rm"`
}

//
// For TOML parsing only
//

type ExerciseDefTOML struct {
	Name          string `toml:"name"`
	Description   string `toml:"description"`
	PrimaryMuscle string `toml:"primary_muscle"`
	Category      string `toml:"category"`
}

type ExerciseImport struct {
	Exercises []ExerciseDefTOML `toml:"exercise"`
}
