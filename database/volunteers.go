package database

import (
	"context"
	"fmt"

	"safepulse/models"
)

// Volunteers lists the whole volunteer directory.
func (s *Service) Volunteers(ctx context.Context) ([]models.Volunteer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, expertise FROM volunteers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var volunteers []models.Volunteer
	for rows.Next() {
		var (
			volunteer models.Volunteer
			expertise string
		)
		if err := rows.Scan(&volunteer.Id, &volunteer.Name, &expertise); err != nil {
			return nil, fmt.Errorf("failed to scan volunteer row: %w", err)
		}
		volunteer.Expertise = decodeStrings(expertise)
		volunteers = append(volunteers, volunteer)
	}
	return volunteers, rows.Err()
}
