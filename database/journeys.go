package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"

	"safepulse/models"
)

const journeyColumns = `id, user_id, start_latitude, start_longitude, dest_latitude, dest_longitude,
	travel_mode, status, route_safety, safety_recommendations, start_time, end_time`

func scanJourney(sc scanner) (*models.Journey, error) {
	var (
		journey         models.Journey
		routeSafety     string
		recommendations string
		endTime         sql.NullTime
	)
	if err := sc.Scan(&journey.Id, &journey.UserId,
		&journey.Start.Latitude, &journey.Start.Longitude,
		&journey.Destination.Latitude, &journey.Destination.Longitude,
		&journey.TravelMode, &journey.Status, &routeSafety, &recommendations,
		&journey.StartTime, &endTime); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(routeSafety), &journey.RouteSafety); err != nil {
		log.Warnf("Malformed route_safety for journey %s: %v", journey.Id, err)
	}
	journey.SafetyRecommendations = decodeStrings(recommendations)
	if endTime.Valid {
		journey.EndTime = &endTime.Time
	}
	return &journey, nil
}

// CreateJourney persists a new journey with its safety profile.
func (s *Service) CreateJourney(ctx context.Context, journey *models.Journey) error {
	rawRouteSafety, err := json.Marshal(journey.RouteSafety)
	if err != nil {
		return fmt.Errorf("failed to encode route safety: %w", err)
	}
	recommendations, err := encodeStrings(journey.SafetyRecommendations)
	if err != nil {
		return fmt.Errorf("failed to encode safety recommendations: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO journeys
		(id, user_id, start_latitude, start_longitude, dest_latitude, dest_longitude,
		 travel_mode, status, route_safety, safety_recommendations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		journey.Id, journey.UserId,
		journey.Start.Latitude, journey.Start.Longitude,
		journey.Destination.Latitude, journey.Destination.Longitude,
		journey.TravelMode, journey.Status, string(rawRouteSafety), recommendations)
	if err != nil {
		return fmt.Errorf("failed to insert journey %s: %w", journey.Id, err)
	}
	return nil
}

// GetJourney fetches one journey by id.
func (s *Service) GetJourney(ctx context.Context, journeyId string) (*models.Journey, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+journeyColumns+` FROM journeys WHERE id = ?`, journeyId)
	journey, err := scanJourney(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("journey %s: %w", journeyId, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch journey %s: %w", journeyId, err)
	}
	return journey, nil
}

// TransitionJourney moves an active journey to the given terminal status
// under a row lock. When the journey is already terminal it is returned
// unchanged and the second return value is false.
func (s *Service) TransitionJourney(ctx context.Context, journeyId, status string) (*models.Journey, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+journeyColumns+` FROM journeys WHERE id = ? FOR UPDATE`, journeyId)
	journey, err := scanJourney(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("journey %s: %w", journeyId, models.ErrNotFound)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock journey %s: %w", journeyId, err)
	}

	if journey.Status != models.JourneyStatusActive {
		return journey, false, tx.Commit()
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE journeys SET status = ?, end_time = ? WHERE id = ?`,
		status, now, journeyId); err != nil {
		return nil, false, fmt.Errorf("failed to transition journey %s: %w", journeyId, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit journey transition: %w", err)
	}
	journey.Status = status
	journey.EndTime = &now
	return journey, true, nil
}

// CountActiveJourneys reports how many journeys are currently active.
func (s *Service) CountActiveJourneys(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journeys WHERE status = ?`,
		models.JourneyStatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active journeys: %w", err)
	}
	return count, nil
}
