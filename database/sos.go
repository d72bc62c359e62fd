package database

import (
	"context"
	"fmt"

	"safepulse/models"
)

// CreateSosEvent appends one SOS fan-out record and fills in its
// generated id.
func (s *Service) CreateSosEvent(ctx context.Context, event *models.SosEvent) error {
	contacts, err := encodeStrings(event.ContactsNotified)
	if err != nil {
		return fmt.Errorf("failed to encode notified contacts: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `INSERT INTO sos_history
		(user_id, latitude, longitude, message, contacts_notified) VALUES (?, ?, ?, ?, ?)`,
		event.UserId, event.Latitude, event.Longitude, event.Message, contacts)
	if err != nil {
		return fmt.Errorf("failed to insert sos event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read sos event id: %w", err)
	}
	event.Id = id
	return nil
}

// SosHistory lists a user's SOS events, newest first.
func (s *Service) SosHistory(ctx context.Context, userId string) ([]models.SosEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, latitude, longitude, message, contacts_notified, created_at
		FROM sos_history WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to query sos history for user %s: %w", userId, err)
	}
	defer rows.Close()

	var events []models.SosEvent
	for rows.Next() {
		var (
			event    models.SosEvent
			contacts string
		)
		if err := rows.Scan(&event.Id, &event.UserId, &event.Latitude, &event.Longitude,
			&event.Message, &contacts, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sos event row: %w", err)
		}
		event.ContactsNotified = decodeStrings(contacts)
		events = append(events, event)
	}
	return events, rows.Err()
}
