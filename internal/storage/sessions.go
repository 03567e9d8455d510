package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ptstack/ptstack/internal/models"
)

// SaveSession commits a staged session to the database: the session row, its
// exercises and sets, then PR updates for the improvements it contains.
func (s *Storage) SaveSession(state *models.SessionState) (*models.TrainingSession, error) {
	completedAt := time.Now().UTC()
	if completedAt.Before(state.StartTime) {
		return nil, fmt.Errorf("completion time precedes session start")
	}

	session := &models.TrainingSession{
		ID:               state.SessionID,
		UserID:           state.UserID,
		ProgramVersionID: state.VersionID,
		ProgramDayID:     state.DayID,
		LoggedBy:         state.LoggedBy,
		StartTime:        state.StartTime,
		CompletedAt:      &completedAt,
		Notes:            state.Notes,
	}
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO training_sessions
            (id, user_id, program_version_id, program_day_id, logged_by, start_time, completed_at, notes)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		nullIfEmpty(session.ProgramVersionID),
		nullIfEmpty(session.ProgramDayID),
		nullIfEmpty(session.LoggedBy),
		session.StartTime.UTC().Format(time.RFC3339),
		completedAt.Format(time.RFC3339),
		session.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to create session: %w", err)
	}

	for _, staged := range state.Exercises {
		seID := uuid.New().String()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO session_exercises
                (id, session_id, exercise_id, custom_exercise_id, order_index, superset_group)
             VALUES (?, ?, ?, ?, ?, ?)`,
			seID,
			session.ID,
			nullIfEmpty(staged.ExerciseID),
			nullIfEmpty(staged.CustomExerciseID),
			staged.OrderIndex,
			staged.SupersetGroup,
		)
		if err != nil {
			return nil, fmt.Errorf("Failed to create session exercise: %w", err)
		}

		se := models.SessionExercise{
			ID:            seID,
			SessionID:     session.ID,
			OrderIndex:    staged.OrderIndex,
			SupersetGroup: staged.SupersetGroup,
		}
		if staged.ExerciseID != "" {
			se.Exercise = &models.Exercise{ID: staged.ExerciseID}
		}

		for _, stagedSet := range staged.Sets {
			set := models.SessionSet{
				ID:                uuid.New().String(),
				SessionExerciseID: seID,
				SetIndex:          stagedSet.SetIndex,
				SetType:           stagedSet.SetType,
				PrescribedReps:    stagedSet.PrescribedReps,
				PrescribedWeight:  stagedSet.PrescribedWeight,
				PrescribedRPE:     stagedSet.PrescribedRPE,
				PerformedReps:     stagedSet.PerformedReps,
				PerformedWeight:   stagedSet.PerformedWeight,
				PerformedRPE:      stagedSet.PerformedRPE,
				PerformedSeconds:  stagedSet.PerformedSeconds,
				Tempo:             stagedSet.Tempo,
				Completed:         stagedSet.Completed,
				Skipped:           stagedSet.Skipped,
				CompletedAt:       stagedSet.CompletedAt,
			}
			set.AsPrescribed = set.Completed && !set.Skipped && set.MatchesPrescription()

			var setCompletedAt any
			if set.CompletedAt != nil {
				setCompletedAt = set.CompletedAt.UTC().Format(time.RFC3339)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO session_sets
                    (id, session_exercise_id, set_index, set_type,
                     prescribed_reps, prescribed_weight, prescribed_rpe,
                     performed_reps, performed_weight, performed_rpe, performed_seconds,
                     tempo, completed, completed_as_prescribed, skipped, completed_at)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				set.ID, set.SessionExerciseID, set.SetIndex, set.SetType,
				set.PrescribedReps, set.PrescribedWeight, floatPtr(set.PrescribedRPE),
				set.PerformedReps, set.PerformedWeight, floatPtr(set.PerformedRPE), set.PerformedSeconds,
				set.Tempo, boolToInt(set.Completed), boolToInt(set.AsPrescribed), boolToInt(set.Skipped),
				setCompletedAt,
			)
			if err != nil {
				return nil, fmt.Errorf("Failed to create session set: %w", err)
			}
			se.Sets = append(se.Sets, set)
		}
		session.Exercises = append(session.Exercises, se)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Failed to commit transaction: %w", err)
	}

	if err := s.updatePersonalRecords(session); err != nil {
		return nil, fmt.Errorf("Failed to update personal records: %w", err)
	}

	return session, nil
}

// SoftDeleteSession marks a session deleted without destroying its data.
func (s *Storage) SoftDeleteSession(sessionID string) error {
	res, err := s.DB.Exec(
		`UPDATE training_sessions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339), sessionID,
	)
	if err != nil {
		return fmt.Errorf("Failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &models.NotFoundError{Entity: "session", Key: sessionID}
	}
	return nil
}

// RestoreSession recovers a soft-deleted session.
func (s *Storage) RestoreSession(sessionID string) error {
	res, err := s.DB.Exec(
		`UPDATE training_sessions SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("Failed to restore session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &models.NotFoundError{Entity: "deleted session", Key: sessionID}
	}
	return nil
}

// GetSessionByID returns a session with its exercises and sets.
func (s *Storage) GetSessionByID(sessionID string) (*models.TrainingSession, error) {
	row := s.DB.QueryRow(`
        SELECT id, user_id, program_version_id, program_day_id, logged_by,
               start_time, completed_at, deleted_at, notes
        FROM training_sessions
        WHERE id = ?`, sessionID)

	session, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Entity: "session", Key: sessionID}
		}
		return nil, err
	}

	session.Exercises, err = s.loadSessionExercises(session.ID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// CompletedSessionsInRange returns the user's completed, non-deleted
// sessions whose completion timestamp falls within [from, to], hydrated with
// exercises and sets. This is the metric aggregator's read path.
func (s *Storage) CompletedSessionsInRange(ctx context.Context, userID string, from, to time.Time) ([]models.TrainingSession, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT id, user_id, program_version_id, program_day_id, logged_by,
               start_time, completed_at, deleted_at, notes
        FROM training_sessions
        WHERE user_id = ?
        AND deleted_at IS NULL
        AND completed_at IS NOT NULL
        AND completed_at >= ?
        AND completed_at <= ?
        ORDER BY completed_at ASC`,
		userID,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.TrainingSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan session: %w", err)
		}
		session.Exercises, err = s.loadSessionExercises(session.ID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// LastPerformedSets returns the sets the user logged for an exercise in
// their most recent completed session, newest session first.
func (s *Storage) LastPerformedSets(userID, exerciseID string) ([]models.SessionSet, error) {
	var sessionExerciseID string
	err := s.DB.QueryRow(`
        SELECT se.id
        FROM session_exercises se
        JOIN training_sessions ts ON se.session_id = ts.id
        WHERE se.exercise_id = ?
        AND ts.user_id = ?
        AND ts.completed_at IS NOT NULL
        AND ts.deleted_at IS NULL
        ORDER BY ts.completed_at DESC
        LIMIT 1`,
		exerciseID, userID,
	).Scan(&sessionExerciseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Never performed.
		}
		return nil, err
	}

	return s.loadSets(sessionExerciseID)
}

// LastCompletedSessionTime returns the completion time of the user's most
// recent completed session, or nil if there is none.
func (s *Storage) LastCompletedSessionTime(userID string) (*time.Time, error) {
	var completedAt sql.NullString
	err := s.DB.QueryRow(`
        SELECT MAX(completed_at)
        FROM training_sessions
        WHERE user_id = ?
        AND completed_at IS NOT NULL
        AND deleted_at IS NULL`,
		userID,
	).Scan(&completedAt)
	if err != nil {
		return nil, err
	}
	if !completedAt.Valid || completedAt.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, completedAt.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.TrainingSession, error) {
	var session models.TrainingSession
	var versionID, dayID, loggedBy, completedAt, deletedAt, notes sql.NullString
	var startTime string

	err := row.Scan(
		&session.ID, &session.UserID, &versionID, &dayID, &loggedBy,
		&startTime, &completedAt, &deletedAt, &notes,
	)
	if err != nil {
		return nil, err
	}

	session.ProgramVersionID = versionID.String
	session.ProgramDayID = dayID.String
	session.LoggedBy = loggedBy.String
	session.Notes = notes.String
	session.StartTime, _ = time.Parse(time.RFC3339, startTime)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		session.CompletedAt = &t
	}
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		session.DeletedAt = &t
	}
	return &session, nil
}

func (s *Storage) loadSessionExercises(sessionID string) ([]models.SessionExercise, error) {
	rows, err := s.DB.Query(`
        SELECT id, session_id, exercise_id, custom_exercise_id, order_index, superset_group
        FROM session_exercises
        WHERE session_id = ?
        ORDER BY order_index`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to query session exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.SessionExercise
	for rows.Next() {
		var se models.SessionExercise
		var exerciseID, customID, supersetGroup sql.NullString
		if err := rows.Scan(&se.ID, &se.SessionID, &exerciseID, &customID, &se.OrderIndex, &supersetGroup); err != nil {
			return nil, fmt.Errorf("Failed to scan session exercise: %w", err)
		}
		se.SupersetGroup = supersetGroup.String

		// A dangling reference stays nil; the aggregator excludes it.
		if exerciseID.Valid {
			se.Exercise, _ = s.GetExerciseByID(exerciseID.String)
		} else if customID.Valid {
			se.Custom, _ = s.GetCustomExerciseByID(customID.String)
		}

		se.Sets, err = s.loadSets(se.ID)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, se)
	}
	return exercises, rows.Err()
}

func (s *Storage) loadSets(sessionExerciseID string) ([]models.SessionSet, error) {
	rows, err := s.DB.Query(`
        SELECT id, session_exercise_id, set_index, set_type,
               prescribed_reps, prescribed_weight, prescribed_rpe,
               performed_reps, performed_weight, performed_rpe, performed_seconds,
               tempo, completed, completed_as_prescribed, skipped, completed_at
        FROM session_sets
        WHERE session_exercise_id = ?
        ORDER BY set_index`,
		sessionExerciseID,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to query session sets: %w", err)
	}
	defer rows.Close()

	var sets []models.SessionSet
	for rows.Next() {
		var set models.SessionSet
		var prescribedRPE, performedRPE sql.NullFloat64
		var performedSeconds sql.NullInt64
		var tempo, completedAt sql.NullString
		var completed, asPrescribed, skipped int

		err := rows.Scan(
			&set.ID, &set.SessionExerciseID, &set.SetIndex, &set.SetType,
			&set.PrescribedReps, &set.PrescribedWeight, &prescribedRPE,
			&set.PerformedReps, &set.PerformedWeight, &performedRPE, &performedSeconds,
			&tempo, &completed, &asPrescribed, &skipped, &completedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan session set: %w", err)
		}

		if prescribedRPE.Valid {
			rpe := float32(prescribedRPE.Float64)
			set.PrescribedRPE = &rpe
		}
		if performedRPE.Valid {
			rpe := float32(performedRPE.Float64)
			set.PerformedRPE = &rpe
		}
		if performedSeconds.Valid {
			set.PerformedSeconds = int(performedSeconds.Int64)
		}
		set.Tempo = tempo.String
		set.Completed = completed == 1
		set.AsPrescribed = asPrescribed == 1
		set.Skipped = skipped == 1
		if completedAt.Valid {
			t, _ := time.Parse(time.RFC3339, completedAt.String)
			set.CompletedAt = &t
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatPtr(f *float32) any {
	if f == nil {
		return nil
	}
	return *f
}
