package models

import "time"

// CardioEntry is logged independently of training sessions, keyed by its
// entry date.
type CardioEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ActivityType    string    `json:"activity_type"`
	EntryDate       time.Time `json:"entry_date"`
	DurationMinutes int       `json:"duration_minutes"`
	DistanceKm      float32   `json:"distance_km,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}
