package analytics

import "time"

// Snapshot is the derived-metrics view of a user's training window. It is
// the contract consumed by digest generation and suggestion serialization,
// so field names are stable.
type Snapshot struct {
	Period             Period             `json:"period"`
	SessionSummary     SessionSummary     `json:"session_summary"`
	MuscleGroups       MuscleGroups       `json:"muscle_groups"`
	ExerciseCategories ExerciseCategories `json:"exercise_categories"`
	VolumeMetrics      VolumeMetrics      `json:"volume_metrics"`
	CardioAnalysis     CardioAnalysis     `json:"cardio_analysis"`
	WeeklyPatterns     WeeklyPatterns     `json:"weekly_patterns"`
	RecoveryAnalysis   RecoveryAnalysis   `json:"recovery_analysis"`
}

type Period struct {
	Days  int       `json:"days"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SessionSummary struct {
	Count          int     `json:"count"`
	AveragePerWeek float64 `json:"average_per_week"`
}

type MuscleGroups struct {
	Frequency    map[string]int `json:"frequency"`
	Volume       map[string]int `json:"volume"`
	MostTrained  string         `json:"most_trained"`
	LeastTrained string         `json:"least_trained"`
}

type ExerciseCategories struct {
	Frequency map[string]int `json:"frequency"`
	Primary   string         `json:"primary"`
}

type VolumeMetrics struct {
	TotalSets         int     `json:"total_sets"`
	AvgSetsPerSession float64 `json:"average_sets_per_session"`
	AvgRepsPerSet     float64 `json:"average_reps_per_set"`
	TotalVolume       float64 `json:"total_volume"`
}

type CardioAnalysis struct {
	Count           int            `json:"count"`
	TypeFrequency   map[string]int `json:"type_frequency"`
	TotalDuration   int            `json:"total_duration_minutes"`
	TotalDistanceKm float64        `json:"total_distance_km"`
}

type WeeklyPatterns struct {
	DayFrequency map[string]int            `json:"day_frequency"`
	MusclesByDay map[string]map[string]int `json:"muscles_by_day"`
}

type RecoveryAnalysis struct {
	AverageDaysBetween float64 `json:"average_days_between"`
	MinDaysBetween     int     `json:"min_days_between"`
	MaxDaysBetween     int     `json:"max_days_between"`
}
