package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"safepulse/models"
)

// UpsertUser creates the user row or refreshes name and email on an
// existing one.
func (s *Service) UpsertUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, name, email)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE name = ?, email = ?`,
		user.Id, user.Name, user.Email, user.Name, user.Email)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.Id, err)
	}
	return nil
}

// GetUser fetches one user by id.
func (s *Service) GetUser(ctx context.Context, userId string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `SELECT id, name, email, created_at FROM users WHERE id = ?`,
		userId).Scan(&user.Id, &user.Name, &user.Email, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userId, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", userId, err)
	}
	return &user, nil
}
