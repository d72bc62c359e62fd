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

const reportColumns = `id, reporter_id, raw_text, anonymized_text, latitude, longitude,
	severity, categories, status, verification_count, requires_immediate_action,
	created_at, updated_at`

func scanReport(sc scanner) (*models.Report, error) {
	var report models.Report
	var categories string
	if err := sc.Scan(&report.Id, &report.ReporterId, &report.RawText, &report.AnonymizedText,
		&report.Location.Latitude, &report.Location.Longitude, &report.Severity, &categories,
		&report.Status, &report.VerificationCount, &report.RequiresImmediateAction,
		&report.CreatedAt, &report.UpdatedAt); err != nil {
		return nil, err
	}
	report.Categories = decodeStrings(categories)
	return &report, nil
}

// CreateReport persists a new report.
func (s *Service) CreateReport(ctx context.Context, report *models.Report) error {
	categories, err := encodeStrings(report.Categories)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO reports
		(id, reporter_id, raw_text, anonymized_text, latitude, longitude, severity,
		 categories, status, verification_count, requires_immediate_action)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.Id, report.ReporterId, report.RawText, report.AnonymizedText,
		report.Location.Latitude, report.Location.Longitude, report.Severity,
		categories, report.Status, report.VerificationCount, report.RequiresImmediateAction)
	if err != nil {
		return fmt.Errorf("failed to insert report %s: %w", report.Id, err)
	}
	return nil
}

// GetReport fetches one report by id.
func (s *Service) GetReport(ctx context.Context, reportId string) (*models.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, reportId)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", reportId, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report %s: %w", reportId, err)
	}
	return report, nil
}

// VerifyReport applies one confirm or dispute vote under a row lock and
// returns the updated report. The second return value is true only when
// this vote crossed the verification threshold.
func (s *Service) VerifyReport(ctx context.Context, reportId, kind string) (*models.Report, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ? FOR UPDATE`, reportId)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("report %s: %w", reportId, models.ErrNotFound)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock report %s: %w", reportId, err)
	}

	var escalated bool
	switch kind {
	case models.VerificationConfirm:
		outcome := consensus.ConfirmReport(report.VerificationCount, report.Status)
		report.VerificationCount = outcome.Count
		report.Status = outcome.Status
		escalated = outcome.Escalated
	case models.VerificationDispute:
		outcome := consensus.DisputeReport(report.VerificationCount, report.Status)
		report.VerificationCount = outcome.Count
		report.Status = outcome.Status
	default:
		return nil, false, fmt.Errorf("unknown verification kind %q: %w", kind, models.ErrValidation)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE reports SET verification_count = ?, status = ? WHERE id = ?`,
		report.VerificationCount, report.Status, reportId); err != nil {
		return nil, false, fmt.Errorf("failed to update report %s: %w", reportId, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit report verification: %w", err)
	}
	return report, escalated, nil
}

// ReportsInBox returns report candidates inside the bounding box. Callers
// apply the exact distance test.
func (s *Service) ReportsInBox(ctx context.Context, box geo.BoundingBox) ([]models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE latitude BETWEEN ? AND ?`
	args := []interface{}{box.LatMin, box.LatMax}
	if !box.FullLongitude {
		query += ` AND longitude BETWEEN ? AND ?`
		args = append(args, box.LngMin, box.LngMax)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports by area: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}
