package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"safepulse/consensus"
	"safepulse/geo"
	"safepulse/models"
)

const alertColumns = `id, reporter_id, alert_type, description, latitude, longitude,
	severity, status, verification_count, resolution_details, created_at, updated_at`

func scanAlert(sc scanner) (*models.Alert, error) {
	var alert models.Alert
	if err := sc.Scan(&alert.Id, &alert.ReporterId, &alert.Type, &alert.Description,
		&alert.Location.Latitude, &alert.Location.Longitude, &alert.Severity, &alert.Status,
		&alert.VerificationCount, &alert.ResolutionDetails, &alert.CreatedAt, &alert.UpdatedAt); err != nil {
		return nil, err
	}
	return &alert, nil
}

// CreateAlert persists a new alert.
func (s *Service) CreateAlert(ctx context.Context, alert *models.Alert) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO alerts
		(id, reporter_id, alert_type, description, latitude, longitude, severity,
		 status, verification_count, resolution_details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		alert.Id, alert.ReporterId, alert.Type, alert.Description,
		alert.Location.Latitude, alert.Location.Longitude, alert.Severity,
		alert.Status, alert.VerificationCount, alert.ResolutionDetails)
	if err != nil {
		return fmt.Errorf("failed to insert alert %s: %w", alert.Id, err)
	}
	return nil
}

// GetAlert fetches one alert by id.
func (s *Service) GetAlert(ctx context.Context, alertId string) (*models.Alert, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ?`, alertId)
	alert, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("alert %s: %w", alertId, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alert %s: %w", alertId, err)
	}
	return alert, nil
}

// VerifyAlert applies one confirm or dispute vote under a row lock and
// returns the updated alert. The second return value is true only when
// this vote escalated the severity to high.
func (s *Service) VerifyAlert(ctx context.Context, alertId, kind string) (*models.Alert, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ? FOR UPDATE`, alertId)
	alert, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("alert %s: %w", alertId, models.ErrNotFound)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock alert %s: %w", alertId, err)
	}

	var escalated bool
	switch kind {
	case models.VerificationConfirm:
		outcome := consensus.ConfirmAlert(alert.VerificationCount, alert.Status, alert.Severity)
		alert.VerificationCount = outcome.Count
		alert.Status = outcome.Status
		alert.Severity = outcome.Severity
		escalated = outcome.Escalated
	case models.VerificationDispute:
		outcome := consensus.DisputeAlert(alert.VerificationCount, alert.Status, alert.Severity)
		alert.VerificationCount = outcome.Count
		alert.Status = outcome.Status
		alert.Severity = outcome.Severity
	default:
		return nil, false, fmt.Errorf("unknown verification kind %q: %w", kind, models.ErrValidation)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE alerts SET verification_count = ?, status = ?, severity = ? WHERE id = ?`,
		alert.VerificationCount, alert.Status, alert.Severity, alertId); err != nil {
		return nil, false, fmt.Errorf("failed to update alert %s: %w", alertId, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit alert verification: %w", err)
	}
	return alert, escalated, nil
}

// ResolveAlert moves an alert to resolved and stores the resolution
// details. Resolving an already resolved alert changes nothing; the second
// return value is false in that case.
func (s *Service) ResolveAlert(ctx context.Context, alertId, resolutionDetails string) (*models.Alert, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ? FOR UPDATE`, alertId)
	alert, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("alert %s: %w", alertId, models.ErrNotFound)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock alert %s: %w", alertId, err)
	}

	if alert.Status == models.AlertStatusResolved {
		return alert, false, tx.Commit()
	}

	alert.Status = models.AlertStatusResolved
	alert.ResolutionDetails = resolutionDetails
	if _, err := tx.ExecContext(ctx, `UPDATE alerts SET status = ?, resolution_details = ? WHERE id = ?`,
		alert.Status, alert.ResolutionDetails, alertId); err != nil {
		return nil, false, fmt.Errorf("failed to resolve alert %s: %w", alertId, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit alert resolution: %w", err)
	}
	return alert, true, nil
}

// ActiveAlertsInBox returns active alert candidates inside the bounding
// box. Callers apply the exact distance test and ordering.
func (s *Service) ActiveAlertsInBox(ctx context.Context, box geo.BoundingBox) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE status = ? AND latitude BETWEEN ? AND ?`
	args := []interface{}{models.AlertStatusActive, box.LatMin, box.LatMax}
	if !box.FullLongitude {
		query += ` AND longitude BETWEEN ? AND ?`
		args = append(args, box.LngMin, box.LngMax)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, *alert)
	}
	return alerts, rows.Err()
}
