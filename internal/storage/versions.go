package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ptstack/ptstack/internal/models"
)

// ActivateVersion makes the given version the program's single active one.
// Deactivation and activation happen in one transaction so there is never a
// window with zero or two active versions. Re-activating the already-active
// version is a no-op that still ends with exactly one active row.
func (s *Storage) ActivateVersion(programName string, versionNumber int) error {
	program, err := s.GetProgramByName(programName)
	if err != nil {
		return err
	}

	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var versionID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM program_versions WHERE program_id = ? AND version_number = ?`,
		program.ID, versionNumber,
	).Scan(&versionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.NotFoundError{
				Entity: "program version",
				Key:    fmt.Sprintf("%s v%d", programName, versionNumber),
			}
		}
		return fmt.Errorf("Failed to query version: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE program_versions SET is_active = 0 WHERE program_id = ?`,
		program.ID,
	)
	if err != nil {
		return fmt.Errorf("Failed to deactivate versions: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE program_versions SET is_active = 1 WHERE id = ?`,
		versionID,
	)
	if err != nil {
		return fmt.Errorf("Failed to activate version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return nil
}
