package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ptstack/ptstack/internal/models"
)

func (s *Storage) CreateUser(name, role string) (*models.User, error) {
	user := models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.DB.Exec(
		`INSERT INTO users (id, name, role, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Name, user.Role, user.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to create user: %w", err)
	}

	return &user, nil
}

func (s *Storage) GetUserByName(name string) (*models.User, error) {
	var user models.User
	var createdAt string

	err := s.DB.QueryRow(
		`SELECT id, name, role, created_at FROM users WHERE name = ?`,
		name,
	).Scan(&user.ID, &user.Name, &user.Role, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &models.NotFoundError{Entity: "user", Key: name}
		}
		return nil, err
	}

	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &user, nil
}
