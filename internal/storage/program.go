package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/ptstack/ptstack/internal/models"
	"github.com/ptstack/ptstack/internal/progression"
)

// CreateProgram parses a TOML program definition and creates the program
// with version 1 as its active version.
func (s *Storage) CreateProgram(ownerID string, tomlData []byte) error {
	var programTOML models.ProgramTOML
	if err := toml.Unmarshal(tomlData, &programTOML); err != nil {
		return fmt.Errorf("Invalid TOML format: %w", err)
	}

	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	programID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO programs (id, owner_id, name, description, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		programID,
		ownerID,
		programTOML.Name,
		programTOML.Description,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("Failed to create program: %w", err)
	}

	if _, err := insertVersion(ctx, tx, programID, 1, true, programTOML.Days); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return nil
}

// CreateVersion parses a TOML program definition and appends it as a new,
// inactive version of an existing program.
func (s *Storage) CreateVersion(programName string, tomlData []byte) (int, error) {
	var programTOML models.ProgramTOML
	if err := toml.Unmarshal(tomlData, &programTOML); err != nil {
		return 0, fmt.Errorf("Invalid TOML format: %w", err)
	}

	program, err := s.GetProgramByName(programName)
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM program_versions WHERE program_id = ?`,
		program.ID,
	).Scan(&maxVersion)
	if err != nil {
		return 0, fmt.Errorf("Failed to read version numbers: %w", err)
	}

	next := maxVersion + 1
	if _, err := insertVersion(ctx, tx, program.ID, next, false, programTOML.Days); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return next, nil
}

func insertVersion(ctx context.Context, tx *sql.Tx, programID string, versionNumber int, active bool, days []models.ProgramDayTOML) (string, error) {
	versionID := uuid.New().String()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO program_versions (id, program_id, version_number, is_active, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		versionID, programID, versionNumber, boolToInt(active),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("Failed to create program version: %w", err)
	}

	for dayIndex, dayTOML := range days {
		dayID := uuid.New().String()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO program_days (id, version_id, name, day_order, intensity)
             VALUES (?, ?, ?, ?, ?)`,
			dayID, versionID, dayTOML.Name, dayIndex, dayTOML.Intensity,
		)
		if err != nil {
			return "", fmt.Errorf("Failed to create program day: %w", err)
		}

		if err := insertDayExercises(ctx, tx, dayID, dayTOML.Exercises); err != nil {
			return "", err
		}
	}

	return versionID, nil
}

func insertDayExercises(ctx context.Context, tx *sql.Tx, dayID string, exercises []models.DayExerciseTOML) error {
	for index, exerciseTOML := range exercises {
		var exerciseID string
		err := tx.QueryRowContext(ctx, "SELECT id FROM exercises WHERE name = ?", exerciseTOML.Name).Scan(&exerciseID)
		if err != nil {
			if err == sql.ErrNoRows {
				return &models.NotFoundError{Entity: "exercise", Key: exerciseTOML.Name}
			}
			return fmt.Errorf("Failed to validate exercise: %w", err)
		}

		// Rules are validated here, at construction time; reads trust the
		// stored list.
		rules := make(progression.RuleList, 0, len(exerciseTOML.Rules))
		for ruleIndex, ruleTOML := range exerciseTOML.Rules {
			rule, err := ruleTOML.Build()
			if err != nil {
				return fmt.Errorf("exercise '%s' rule %d: %w", exerciseTOML.Name, ruleIndex, err)
			}
			rules = append(rules, rule)
		}

		rulesJSON, err := json.Marshal(rules)
		if err != nil {
			return fmt.Errorf("Failed to marshal progression rules: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO program_day_exercises
                (id, day_id, exercise_id, order_index, sets, reps_min, reps_max,
                 target_rpe, rest_seconds, tempo, start_weight, progression_rules)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(),
			dayID,
			exerciseID,
			index,
			exerciseTOML.Sets,
			exerciseTOML.RepsMin,
			exerciseTOML.RepsMax,
			exerciseTOML.TargetRPE,
			exerciseTOML.RestSeconds,
			exerciseTOML.Tempo,
			exerciseTOML.StartWeight,
			string(rulesJSON),
		)
		if err != nil {
			return fmt.Errorf("Failed to create program day exercise: %w", err)
		}
	}
	return nil
}

func (s *Storage) GetProgramByName(name string) (*models.Program, error) {
	var p models.Program
	var createdAt string

	err := s.DB.QueryRow(`
        SELECT id, owner_id, name, description, created_at
        FROM programs WHERE name = ?`,
		name,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Entity: "program", Key: name}
		}
		return nil, err
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

func (s *Storage) ListPrograms() ([]models.Program, error) {
	rows, err := s.DB.Query(`
        SELECT p.id, p.owner_id, p.name, p.description, p.created_at,
               COALESCE((SELECT version_number FROM program_versions
                         WHERE program_id = p.id AND is_active = 1), 0)
        FROM programs p
        ORDER BY p.created_at
    `)
	if err != nil {
		return nil, fmt.Errorf("Failed to query programs: %w", err)
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		var p models.Program
		var createdAt string
		var activeVersion int

		err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &createdAt, &activeVersion)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan program: %w", err)
		}

		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if activeVersion > 0 {
			p.Versions = []models.ProgramVersion{{ProgramID: p.ID, VersionNumber: activeVersion, IsActive: true}}
		}
		programs = append(programs, p)
	}

	return programs, rows.Err()
}

// GetActiveVersion returns the program's active version with days, planned
// exercises and progression rules hydrated.
func (s *Storage) GetActiveVersion(programName string) (*models.ProgramVersion, error) {
	program, err := s.GetProgramByName(programName)
	if err != nil {
		return nil, err
	}

	var version models.ProgramVersion
	var createdAt string
	err = s.DB.QueryRow(`
        SELECT id, program_id, version_number, is_active, created_at
        FROM program_versions
        WHERE program_id = ? AND is_active = 1`,
		program.ID,
	).Scan(&version.ID, &version.ProgramID, &version.VersionNumber, &version.IsActive, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Entity: "active version for program", Key: programName}
		}
		return nil, err
	}
	version.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	version.Days, err = s.loadVersionDays(version.ID)
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// GetVersion returns one specific version of a program, hydrated.
func (s *Storage) GetVersion(programName string, versionNumber int) (*models.ProgramVersion, error) {
	program, err := s.GetProgramByName(programName)
	if err != nil {
		return nil, err
	}

	var version models.ProgramVersion
	var createdAt string
	err = s.DB.QueryRow(`
        SELECT id, program_id, version_number, is_active, created_at
        FROM program_versions
        WHERE program_id = ? AND version_number = ?`,
		program.ID, versionNumber,
	).Scan(&version.ID, &version.ProgramID, &version.VersionNumber, &version.IsActive, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{
				Entity: "program version",
				Key:    fmt.Sprintf("%s v%d", programName, versionNumber),
			}
		}
		return nil, err
	}
	version.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	version.Days, err = s.loadVersionDays(version.ID)
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (s *Storage) loadVersionDays(versionID string) ([]models.ProgramDay, error) {
	rows, err := s.DB.Query(`
        SELECT id, version_id, name, day_order, intensity
        FROM program_days
        WHERE version_id = ?
        ORDER BY day_order`,
		versionID,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to query program days: %w", err)
	}
	defer rows.Close()

	var days []models.ProgramDay
	for rows.Next() {
		var day models.ProgramDay
		var intensity string
		if err := rows.Scan(&day.ID, &day.VersionID, &day.Name, &day.DayOrder, &intensity); err != nil {
			return nil, fmt.Errorf("Failed to scan program day: %w", err)
		}
		day.Intensity = progression.Intensity(intensity)

		day.Exercises, err = s.loadDayExercises(day.ID)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (s *Storage) loadDayExercises(dayID string) ([]models.ProgramDayExercise, error) {
	rows, err := s.DB.Query(`
        SELECT id, day_id, exercise_id, order_index, sets, reps_min, reps_max,
               target_rpe, rest_seconds, tempo, start_weight, progression_rules
        FROM program_day_exercises
        WHERE day_id = ?
        ORDER BY order_index`,
		dayID,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to query day exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.ProgramDayExercise
	for rows.Next() {
		var pde models.ProgramDayExercise
		var targetRPE sql.NullFloat64
		var restSeconds sql.NullInt64
		var tempo, rulesJSON sql.NullString
		var startWeight sql.NullFloat64

		err := rows.Scan(
			&pde.ID, &pde.DayID, &pde.ExerciseID, &pde.OrderIndex,
			&pde.Sets, &pde.RepsMin, &pde.RepsMax,
			&targetRPE, &restSeconds, &tempo, &startWeight, &rulesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan day exercise: %w", err)
		}

		if targetRPE.Valid {
			rpe := float32(targetRPE.Float64)
			pde.TargetRPE = &rpe
		}
		if restSeconds.Valid {
			pde.RestSeconds = int(restSeconds.Int64)
		}
		pde.Tempo = tempo.String
		pde.StartWeight = float32(startWeight.Float64)

		if rulesJSON.Valid && rulesJSON.String != "" {
			if err := json.Unmarshal([]byte(rulesJSON.String), &pde.Rules); err != nil {
				return nil, fmt.Errorf("Failed to decode progression rules: %w", err)
			}
		}

		exercises = append(exercises, pde)
	}
	return exercises, rows.Err()
}

func (s *Storage) DeleteProgramByName(name string) error {
	program, err := s.GetProgramByName(name)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(`DELETE FROM programs WHERE id = ?`, program.ID)
	if err != nil {
		return fmt.Errorf("Failed to delete program: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
