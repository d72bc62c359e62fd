package services

import (
	"context"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"safepulse/classifier"
	"safepulse/database"
	"safepulse/email"
	"safepulse/geo"
	"safepulse/metrics"
	"safepulse/models"
	"safepulse/rabbitmq"
	"safepulse/sms"
)

// DefaultAlertType tags alerts created without an explicit type.
const DefaultAlertType = "general"

// AlertService runs the emergency alert pipeline.
type AlertService struct {
	db         *database.Service
	classifier classifier.Client
	sms        *sms.Sender
	mail       *email.Sender
	events     *rabbitmq.EventBus
}

func NewAlertService(db *database.Service, classifierClient classifier.Client, smsSender *sms.Sender, mail *email.Sender, events *rabbitmq.EventBus) *AlertService {
	return &AlertService{db: db, classifier: classifierClient, sms: smsSender, mail: mail, events: events}
}

// Create persists a new alert. The classifier may refine the severity; on
// failure the caller-supplied severity stands, so the alert is never lost
// to a collaborator fault. High severity alerts fan out to the reporter's
// emergency contacts immediately; the returned count is how many were
// reached.
func (s *AlertService) Create(ctx context.Context, req *models.CreateAlertRequest) (*models.Alert, int, error) {
	alertType := req.Type
	if alertType == "" {
		alertType = DefaultAlertType
	}
	severity := req.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}

	start := time.Now()
	assessment, err := s.classifier.ProcessAlert(alertType, req.Description, req.Location, severity)
	observeClassifier(classifier.TaskProcessAlert, start, err)
	if err != nil {
		log.WithError(err).Warnf("Alert assessment unavailable, keeping severity %s", severity)
	} else {
		severity = assessment.Severity
	}

	now := time.Now().UTC()
	alert := &models.Alert{
		Id:                uuid.New().String(),
		ReporterId:        req.UserId,
		Type:              alertType,
		Description:       req.Description,
		Location:          req.Location,
		Severity:          severity,
		Status:            models.AlertStatusActive,
		VerificationCount: 1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.db.CreateAlert(ctx, alert); err != nil {
		return nil, 0, err
	}
	metrics.AlertsCreatedTotal.WithLabelValues(alert.Severity).Inc()

	notified := 0
	if alert.Severity == models.SeverityHigh {
		notified = s.notifyContacts(ctx, alert)
	}
	s.events.Emit(rabbitmq.EventAlertCreated, alert)
	return alert, notified, nil
}

// notifyContacts pushes a high severity alert to the reporter's emergency
// contacts and reports how many were reached.
func (s *AlertService) notifyContacts(ctx context.Context, alert *models.Alert) int {
	contacts, err := s.db.ContactsByUser(ctx, alert.ReporterId)
	if err != nil {
		log.WithError(err).Warnf("Failed to load emergency contacts for alert %s", alert.Id)
		return 0
	}
	if len(contacts) == 0 {
		return 0
	}

	message := "ALERT: Emergency alert!"
	if alert.Description != "" {
		message = "ALERT: " + alert.Description
	}
	userName := "User"
	if user, err := s.db.GetUser(ctx, alert.ReporterId); err == nil && user.Name != "" {
		userName = user.Name
	}

	results := s.sms.SendSosNotifications(userName, alert.Location, message, contacts)
	return len(countSosResults(results))
}

// Get returns one alert.
func (s *AlertService) Get(ctx context.Context, alertId string) (*models.Alert, error) {
	return s.db.GetAlert(ctx, alertId)
}

// GetActive lists active alerts within radiusKm of center, most severe
// first, ties broken by ascending distance.
func (s *AlertService) GetActive(ctx context.Context, center models.GeoPoint, radiusKm float64) ([]models.Alert, error) {
	candidates, err := s.db.ActiveAlertsInBox(ctx, geo.BoundingBoxAround(center, radiusKm))
	if err != nil {
		return nil, err
	}

	active := make([]models.Alert, 0, len(candidates))
	for _, alert := range candidates {
		distance := geo.HaversineKm(center, alert.Location)
		if distance > radiusKm {
			continue
		}
		alert.DistanceKm = geo.RoundKm(distance)
		active = append(active, alert)
	}
	sort.Slice(active, func(i, j int) bool {
		ri, rj := models.SeverityRank(active[i].Severity), models.SeverityRank(active[j].Severity)
		if ri != rj {
			return ri < rj
		}
		if active[i].DistanceKm != active[j].DistanceKm {
			return active[i].DistanceKm < active[j].DistanceKm
		}
		return active[i].Id < active[j].Id
	})
	return active, nil
}

// Verify applies one verification vote. Crossing the confirm threshold
// raises the severity to high and notifies the reporter by email.
func (s *AlertService) Verify(ctx context.Context, alertId, kind string) (*models.Alert, bool, error) {
	alert, escalated, err := s.db.VerifyAlert(ctx, alertId, kind)
	if err != nil {
		return nil, false, err
	}
	metrics.VerificationsTotal.WithLabelValues("alert", kind).Inc()

	if escalated {
		metrics.EscalationsTotal.WithLabelValues("alert").Inc()
		s.events.Emit(rabbitmq.EventAlertEscalated, alert)
		s.notifyEscalation(ctx, alert)
	}
	return alert, escalated, nil
}

func (s *AlertService) notifyEscalation(ctx context.Context, alert *models.Alert) {
	user, err := s.db.GetUser(ctx, alert.ReporterId)
	if err != nil {
		log.WithError(err).Debugf("No reporter profile for alert %s, skipping email", alert.Id)
		return
	}
	if err := s.mail.SendAlertEscalated(user.Email, alert); err != nil {
		log.WithError(err).Warnf("Failed to email reporter of alert %s", alert.Id)
	}
}

// Resolve closes an alert. Resolving an already resolved alert succeeds
// without changing it.
func (s *AlertService) Resolve(ctx context.Context, alertId, details string) (*models.Alert, error) {
	alert, resolved, err := s.db.ResolveAlert(ctx, alertId, details)
	if err != nil {
		return nil, err
	}
	if resolved {
		s.events.Emit(rabbitmq.EventAlertResolved, alert)
	}
	return alert, nil
}
