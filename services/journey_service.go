package services

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"safepulse/classifier"
	"safepulse/database"
	"safepulse/geo"
	"safepulse/metrics"
	"safepulse/models"
	"safepulse/rabbitmq"
)

// DestinationThresholdKm is the arrival radius around the destination. A
// location update inside it completes the journey regardless of what the
// classifier says.
const DestinationThresholdKm = 0.1

// DefaultEmergencyMessage is used when a journey emergency carries no
// description.
const DefaultEmergencyMessage = "Emergency assistance needed!"

// DefaultTravelMode is assumed when a journey starts without one.
const DefaultTravelMode = "walking"

// Stock recommendations shown when the classifier cannot assess the route.
var defaultRecommendations = []string{
	"Stay in well-lit, populated areas whenever possible",
	"Keep your phone charged and accessible",
	"Share your location with trusted contacts",
}

func defaultRouteSafety() models.RouteSafety {
	return models.RouteSafety{
		OverallRisk:                models.SeverityMedium,
		RiskAreasOnRoute:           []string{},
		TimeFactor:                 "day",
		AlternativeRoutesAvailable: false,
	}
}

// JourneyService tracks journeys from start to a terminal state. It is the
// only writer of journey status and end time.
type JourneyService struct {
	db         *database.Service
	classifier classifier.Client
	sos        *SosService
	events     *rabbitmq.EventBus
}

func NewJourneyService(db *database.Service, classifierClient classifier.Client, sosService *SosService, events *rabbitmq.EventBus) *JourneyService {
	return &JourneyService{db: db, classifier: classifierClient, sos: sosService, events: events}
}

// Start creates an active journey with a route safety profile. Classifier
// faults fall back to the stock profile; the journey starts either way.
func (s *JourneyService) Start(ctx context.Context, req *models.StartJourneyRequest) (*models.Journey, error) {
	mode := req.TravelMode
	if mode == "" {
		mode = DefaultTravelMode
	}

	routeSafety := defaultRouteSafety()
	recommendations := append([]string(nil), defaultRecommendations...)

	start := time.Now()
	assessment, err := s.classifier.AssessRoute(req.Start, req.Destination, mode)
	observeClassifier(classifier.TaskAssessRoute, start, err)
	if err != nil {
		log.WithError(err).Warn("Route assessment unavailable, using default safety profile")
	} else {
		routeSafety = assessment.RouteSafety
		recommendations = assessment.SafetyRecommendations
	}

	journey := &models.Journey{
		Id:                    uuid.New().String(),
		UserId:                req.UserId,
		Start:                 req.Start,
		Destination:           req.Destination,
		TravelMode:            mode,
		Status:                models.JourneyStatusActive,
		RouteSafety:           routeSafety,
		SafetyRecommendations: recommendations,
		StartTime:             time.Now().UTC(),
	}
	if err := s.db.CreateJourney(ctx, journey); err != nil {
		return nil, err
	}
	metrics.JourneysActive.Inc()
	return journey, nil
}

// Get returns one journey.
func (s *JourneyService) Get(ctx context.Context, journeyId string) (*models.Journey, error) {
	return s.db.GetJourney(ctx, journeyId)
}

// UpdateLocation assesses the surroundings of an active journey and
// completes it when the location falls within the arrival threshold of the
// destination. Terminal journeys are reported as not found; updates never
// resurrect them.
func (s *JourneyService) UpdateLocation(ctx context.Context, journeyId string, location models.GeoPoint) (*models.UpdateLocationResponse, error) {
	journey, err := s.db.GetJourney(ctx, journeyId)
	if err != nil {
		return nil, err
	}
	if journey.Status != models.JourneyStatusActive {
		return nil, fmt.Errorf("journey %s is %s: %w", journeyId, journey.Status, models.ErrNotFound)
	}

	response := &models.UpdateLocationResponse{
		NearbyRisks:   []string{},
		Alerts:        []string{},
		JourneyStatus: journey.Status,
	}

	start := time.Now()
	assessment, err := s.classifier.AssessLocation(journey, location)
	observeClassifier(classifier.TaskAssessLocation, start, err)
	if err != nil {
		log.WithError(err).Warn("Location assessment unavailable, reporting no nearby risks")
	} else {
		response.NearbyRisks = assessment.NearbyRisks
		response.Alerts = assessment.Alerts
	}

	if geo.HaversineKm(location, journey.Destination) <= DestinationThresholdKm {
		response.DestinationReached = true
		updated, transitioned, err := s.db.TransitionJourney(ctx, journeyId, models.JourneyStatusCompleted)
		if err != nil {
			return nil, err
		}
		response.JourneyStatus = updated.Status
		if transitioned {
			metrics.JourneysActive.Dec()
			metrics.JourneysEndedTotal.WithLabelValues(models.JourneyStatusCompleted).Inc()
		}
	}
	return response, nil
}

// End completes an active journey and summarizes it. Ending a terminal
// journey repeats its summary without changing anything.
func (s *JourneyService) End(ctx context.Context, journeyId string) (*models.JourneySummary, error) {
	journey, transitioned, err := s.db.TransitionJourney(ctx, journeyId, models.JourneyStatusCompleted)
	if err != nil {
		return nil, err
	}
	if transitioned {
		metrics.JourneysActive.Dec()
		metrics.JourneysEndedTotal.WithLabelValues(models.JourneyStatusCompleted).Inc()
	}

	return &models.JourneySummary{
		JourneyId:   journey.Id,
		Status:      journey.Status,
		StartTime:   journey.StartTime,
		EndTime:     journey.EndTime,
		SafetyScore: SafetyScore(journey.RouteSafety.OverallRisk),
	}, nil
}

// SafetyScore grades a journey from its assessed route risk, clamped to
// zero from below.
func SafetyScore(overallRisk string) int {
	score := 100
	switch overallRisk {
	case models.SeverityHigh:
		score -= 20
	case models.SeverityMedium:
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

// TriggerEmergency escalates an active journey, notifies the user's
// emergency contacts and records the SOS. Terminal journeys are rejected
// as a state conflict.
func (s *JourneyService) TriggerEmergency(ctx context.Context, journeyId string, req *models.EmergencyRequest) (*models.EmergencyResult, error) {
	journey, transitioned, err := s.db.TransitionJourney(ctx, journeyId, models.JourneyStatusEmergency)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, fmt.Errorf("journey %s is %s: %w", journeyId, journey.Status, models.ErrNotActive)
	}
	metrics.JourneysActive.Dec()
	metrics.JourneysEndedTotal.WithLabelValues(models.JourneyStatusEmergency).Inc()

	location := journey.Start
	if req.Location != nil {
		location = *req.Location
	}
	message := req.Description
	if message == "" {
		message = DefaultEmergencyMessage
	}

	result, event, err := s.sos.FanOut(ctx, journey.UserId, location, message)
	if err != nil {
		return nil, err
	}
	s.events.Emit(rabbitmq.EventJourneyEmergency, map[string]interface{}{
		"journey_id": journey.Id,
		"sos":        event,
	})
	return result, nil
}
