package database

import (
	"context"
	"fmt"

	"safepulse/models"
)

// AddContact inserts an emergency contact and fills in its generated id.
func (s *Service) AddContact(ctx context.Context, contact *models.EmergencyContact) error {
	result, err := s.db.ExecContext(ctx, `INSERT INTO emergency_contacts
		(user_id, name, phone, relationship) VALUES (?, ?, ?, ?)`,
		contact.UserId, contact.Name, contact.Phone, contact.Relationship)
	if err != nil {
		return fmt.Errorf("failed to insert emergency contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read contact id: %w", err)
	}
	contact.Id = id
	return nil
}

// ContactsByUser lists a user's emergency contacts, oldest first.
func (s *Service) ContactsByUser(ctx context.Context, userId string) ([]models.EmergencyContact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, name, phone, relationship, created_at
		FROM emergency_contacts WHERE user_id = ? ORDER BY id`, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts for user %s: %w", userId, err)
	}
	defer rows.Close()

	var contacts []models.EmergencyContact
	for rows.Next() {
		var contact models.EmergencyContact
		if err := rows.Scan(&contact.Id, &contact.UserId, &contact.Name, &contact.Phone,
			&contact.Relationship, &contact.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

// DeleteContact removes a contact owned by the given user.
func (s *Service) DeleteContact(ctx context.Context, contactId int64, userId string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM emergency_contacts WHERE id = ? AND user_id = ?`,
		contactId, userId)
	if err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", contactId, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("contact %d for user %s: %w", contactId, userId, models.ErrNotFound)
	}
	return nil
}
