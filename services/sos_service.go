package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"safepulse/database"
	"safepulse/models"
	"safepulse/rabbitmq"
	"safepulse/sms"
)

// DefaultSosMessage is sent when a direct SOS carries no message.
const DefaultSosMessage = "EMERGENCY! I need immediate assistance!"

// SosService fans emergency notifications out to a user's contacts and
// keeps the SOS history.
type SosService struct {
	db     *database.Service
	sms    *sms.Sender
	events *rabbitmq.EventBus
}

func NewSosService(db *database.Service, smsSender *sms.Sender, events *rabbitmq.EventBus) *SosService {
	return &SosService{db: db, sms: smsSender, events: events}
}

// FanOut notifies every emergency contact of the user and records the SOS
// event. Zero contacts is not an error here; the direct SOS entry point
// validates that before calling.
func (s *SosService) FanOut(ctx context.Context, userId string, location models.GeoPoint, message string) (*models.EmergencyResult, *models.SosEvent, error) {
	contacts, err := s.db.ContactsByUser(ctx, userId)
	if err != nil {
		return nil, nil, err
	}

	userName := "User"
	if user, err := s.db.GetUser(ctx, userId); err == nil && user.Name != "" {
		userName = user.Name
	}

	results := s.sms.SendSosNotifications(userName, location, message, contacts)
	notifiedPhones := countSosResults(results)

	event := &models.SosEvent{
		UserId:           userId,
		Latitude:         location.Latitude,
		Longitude:        location.Longitude,
		Message:          message,
		ContactsNotified: notifiedPhones,
	}
	if err := s.db.CreateSosEvent(ctx, event); err != nil {
		return nil, nil, err
	}

	result := &models.EmergencyResult{
		EmergencyId:         uuid.New().String(),
		NotifiedContacts:    len(notifiedPhones),
		AuthoritiesAlerted:  true,
		NotificationResults: results,
	}
	return result, event, nil
}

// Trigger handles a direct SOS outside any journey. At least one emergency
// contact must be registered.
func (s *SosService) Trigger(ctx context.Context, req *models.SosRequest) (*models.EmergencyResult, error) {
	contacts, err := s.db.ContactsByUser(ctx, req.UserId)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, fmt.Errorf("no emergency contacts registered for user %s: %w", req.UserId, models.ErrValidation)
	}

	message := req.Message
	if message == "" {
		message = DefaultSosMessage
	}

	result, event, err := s.FanOut(ctx, req.UserId, req.Location, message)
	if err != nil {
		return nil, err
	}
	s.events.Emit(rabbitmq.EventSosSent, event)
	return result, nil
}

// History lists the user's past SOS events, newest first.
func (s *SosService) History(ctx context.Context, userId string) ([]models.SosEvent, error) {
	return s.db.SosHistory(ctx, userId)
}
