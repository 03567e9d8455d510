package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ptstack/ptstack/internal/models"
)

func (s *Storage) LogCardio(entry models.CardioEntry) (*models.CardioEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.EntryDate.IsZero() {
		entry.EntryDate = time.Now().UTC()
	}

	_, err := s.DB.Exec(
		`INSERT INTO cardio_entries
            (id, user_id, activity_type, entry_date, duration_minutes, distance_km, notes)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.ActivityType,
		entry.EntryDate.UTC().Format(time.RFC3339),
		entry.DurationMinutes,
		entry.DistanceKm,
		entry.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to log cardio entry: %w", err)
	}

	return &entry, nil
}

// CardioEntriesInRange selects by entry_date, independent of training
// session completion times.
func (s *Storage) CardioEntriesInRange(ctx context.Context, userID string, from, to time.Time) ([]models.CardioEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT id, user_id, activity_type, entry_date, duration_minutes, distance_km, notes
        FROM cardio_entries
        WHERE user_id = ?
        AND entry_date >= ?
        AND entry_date <= ?
        ORDER BY entry_date ASC`,
		userID,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to query cardio entries: %w", err)
	}
	defer rows.Close()

	var entries []models.CardioEntry
	for rows.Next() {
		var entry models.CardioEntry
		var entryDate string
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.ActivityType, &entryDate,
			&entry.DurationMinutes, &entry.DistanceKm, &entry.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan cardio entry: %w", err)
		}
		entry.EntryDate, _ = time.Parse(time.RFC3339, entryDate)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
