package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/utils"
)

func (s *Storage) CreateExercise(ex models.Exercise) error {
	if ex.ID == "" {
		ex.ID = uuid.New().String()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	_, err := s.DB.Exec(
		`INSERT INTO exercises
			(id, name, description, primary_muscle, category, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				description = excluded.description,
				primary_muscle = excluded.primary_muscle,
				category = excluded.category`,
		ex.ID,
		ex.Name,
		ex.Description,
		ex.PrimaryMuscle,
		ex.Category,
		ex.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// ImportExercises loads a TOML exercise catalog file and upserts every entry.
func (s *Storage) ImportExercises(tomlData []byte) (int, error) {
	var imported models.ExerciseImport
	if err := toml.Unmarshal(tomlData, &imported); err != nil {
		return 0, fmt.Errorf("Invalid TOML format: %w", err)
	}

	for _, def := range imported.Exercises {
		ex := models.Exercise{
			Name:          def.Name,
			Description:   def.Description,
			PrimaryMuscle: def.PrimaryMuscle,
			Category:      def.Category,
		}
		if err := s.CreateExercise(ex); err != nil {
			return 0, fmt.Errorf("Failed to import exercise '%s': %w", def.Name, err)
		}
	}

	return len(imported.Exercises), nil
}

func (s *Storage) GetExerciseByName(name string) (*models.Exercise, error) {
	return s.getExercise("name", name)
}

func (s *Storage) GetExerciseByID(id string) (*models.Exercise, error) {
	return s.getExercise("id", id)
}

func (s *Storage) getExercise(column, value string) (*models.Exercise, error) {
	var ex models.Exercise
	var createdAt string

	err := s.DB.QueryRow(
		`SELECT id, name, description, primary_muscle, category, created_at
		FROM exercises WHERE `+column+` = ?`,
		value,
	).Scan(
		&ex.ID,
		&ex.Name,
		&ex.Description,
		&ex.PrimaryMuscle,
		&ex.Category,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Entity: "exercise", Key: value}
		}
		return nil, err
	}

	ex.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &ex, nil
}

func (s *Storage) ExerciseExists(name string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM exercises WHERE name = ?)",
		name,
	).Scan(&exists)

	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to check exercise existence: %w", err)
	}

	return exists, nil
}

func (s *Storage) CreateCustomExercise(ex models.CustomExercise) (*models.CustomExercise, error) {
	if ex.ID == "" {
		ex.ID = uuid.New().String()
	}
	ex.CreatedAt = time.Now().UTC()

	_, err := s.DB.Exec(
		`INSERT INTO custom_exercises (id, user_id, name, primary_muscle, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.UserID, ex.Name, ex.PrimaryMuscle, ex.Category,
		ex.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to create custom exercise: %w", err)
	}

	return &ex, nil
}

func (s *Storage) GetCustomExerciseByID(id string) (*models.CustomExercise, error) {
	var ex models.CustomExercise
	var createdAt string

	err := s.DB.QueryRow(
		`SELECT id, user_id, name, primary_muscle, category, created_at
		FROM custom_exercises WHERE id = ?`,
		id,
	).Scan(&ex.ID, &ex.UserID, &ex.Name, &ex.PrimaryMuscle, &ex.Category, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Entity: "custom exercise", Key: id}
		}
		return nil, err
	}

	ex.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &ex, nil
}

// BestSet returns a user's all-time best set for an exercise, ranked by
// estimated 1RM. Skipped sets never count.
func (s *Storage) BestSet(userID, exerciseID string) (*models.SessionSet, error) {
	var set models.SessionSet
	err := s.DB.QueryRow(`
        SELECT ss.performed_weight, ss.performed_reps
        FROM session_sets ss
        JOIN session_exercises se ON ss.session_exercise_id = se.id
        JOIN training_sessions ts ON se.session_id = ts.id
        WHERE se.exercise_id = ?
        AND ts.user_id = ?
        AND ts.deleted_at IS NULL
        AND ss.completed = 1
        AND ss.skipped = 0
        ORDER BY (ss.performed_weight * (1 + ss.performed_reps/30.0)) DESC
        LIMIT 1`,
		exerciseID, userID,
	).Scan(&set.PerformedWeight, &set.PerformedReps)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No recorded sets yet.
		}
		return nil, err
	}
	return &set, nil
}

// UpsertPersonalRecord records a PR candidate; the date key keeps history.
func (s *Storage) UpsertPersonalRecord(pr models.PersonalRecord) error {
	_, err := s.DB.Exec(
		`INSERT INTO personal_records (exercise_id, user_id, date, weight, reps, estimated_1rm)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(exercise_id, user_id, date) DO UPDATE SET
		 	weight = excluded.weight,
		 	reps = excluded.reps,
		 	estimated_1rm = excluded.estimated_1rm`,
		pr.ExerciseID, pr.UserID, pr.Date.Format(time.RFC3339),
		pr.Weight, pr.Reps, pr.Estimated1RM,
	)
	if err != nil {
		return fmt.Errorf("Failed to upsert personal record: %w", err)
	}
	return nil
}

// CurrentPR returns the user's best recorded PR for an exercise, or nil.
func (s *Storage) CurrentPR(userID, exerciseID string) (*models.PersonalRecord, error) {
	var pr models.PersonalRecord
	var date string
	err := s.DB.QueryRow(
		`SELECT exercise_id, user_id, date, weight, reps, estimated_1rm
		 FROM personal_records
		 WHERE exercise_id = ? AND user_id = ?
		 ORDER BY estimated_1rm DESC
		 LIMIT 1`,
		exerciseID, userID,
	).Scan(&pr.ExerciseID, &pr.UserID, &date, &pr.Weight, &pr.Reps, &pr.Estimated1RM)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	pr.Date, _ = time.Parse(time.RFC3339, date)
	return &pr, nil
}

// updatePersonalRecords checks a finished session's sets against the user's
// current PR per exercise and records improvements.
func (s *Storage) updatePersonalRecords(session *models.TrainingSession) error {
	for _, se := range session.Exercises {
		if se.Exercise == nil {
			continue // Custom exercises do not enter the shared PR table.
		}

		var best *models.SessionSet
		var bestOneRM float32
		for i, set := range se.Sets {
			if !set.CountsForVolume() {
				continue
			}
			oneRM := utils.CalculateEpley1RM(set.PerformedWeight, set.PerformedReps)
			if best == nil || oneRM > bestOneRM {
				best = &se.Sets[i]
				bestOneRM = oneRM
			}
		}
		if best == nil {
			continue
		}

		current, err := s.CurrentPR(session.UserID, se.Exercise.ID)
		if err != nil {
			return err
		}
		if current != nil && current.Estimated1RM >= bestOneRM {
			continue
		}

		prDate := session.StartTime
		if session.CompletedAt != nil {
			prDate = *session.CompletedAt
		}
		err = s.UpsertPersonalRecord(models.PersonalRecord{
			ExerciseID:   se.Exercise.ID,
			UserID:       session.UserID,
			Date:         prDate,
			Weight:       best.PerformedWeight,
			Reps:         best.PerformedReps,
			Estimated1RM: bestOneRM,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
