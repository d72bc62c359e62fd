// Package classifier talks to the LLM collaborator that anonymizes incident
// reports, refines alert severity and assesses route/location safety. A
// returned error always means "use the documented fallback": the classifier
// is never allowed to block or fail a primary operation.
package classifier

import (
	"errors"
	"time"

	"github.com/apex/log"

	"safepulse/models"
)

// Tasks understood by the collaborator.
const (
	TaskAnalyzeReport  = "analyze_and_anonymize_report"
	TaskAssessRoute    = "analyze_route_safety_and_recommendations"
	TaskAssessLocation = "analyze_current_location_safety"
	TaskProcessAlert   = "process_emergency_alert"
)

// ErrDisabled is returned by every call on the disabled client.
var ErrDisabled = errors.New("classifier is disabled")

// ReportAnalysis is the collaborator's answer for an incident report.
type ReportAnalysis struct {
	AnonymizedText          string   `json:"anonymized_text"`
	Severity                string   `json:"severity"`
	Categories              []string `json:"categories"`
	RequiresImmediateAction bool     `json:"requires_immediate_action"`
}

// RouteAssessment is the collaborator's answer for a planned journey.
type RouteAssessment struct {
	RouteSafety           models.RouteSafety `json:"route_safety"`
	SafetyRecommendations []string           `json:"safety_recommendations"`
}

// LocationAssessment is the collaborator's answer for a location update.
// DestinationReached is advisory only; the journey engine applies its own
// distance test.
type LocationAssessment struct {
	NearbyRisks        []string `json:"nearby_risks"`
	Alerts             []string `json:"alerts"`
	DestinationReached bool     `json:"destination_reached"`
}

// AlertAssessment is the collaborator's severity refinement for an alert.
type AlertAssessment struct {
	Severity string `json:"severity"`
}

// Client abstracts the safety-analysis collaborator.
// Implementations must be concurrency-safe.
type Client interface {
	// AnalyzeReport anonymizes and categorizes an incident report.
	AnalyzeReport(text string, location models.GeoPoint, timestamp time.Time) (*ReportAnalysis, error)
	// AssessRoute rates a planned route and produces safety recommendations.
	AssessRoute(start, destination models.GeoPoint, travelMode string) (*RouteAssessment, error)
	// AssessLocation rates the user's current position during a journey.
	AssessLocation(journey *models.Journey, current models.GeoPoint) (*LocationAssessment, error)
	// ProcessAlert refines the severity of an emergency alert.
	ProcessAlert(alertType, description string, location models.GeoPoint, severity string) (*AlertAssessment, error)
	// SourceName returns a short provider label for logs.
	SourceName() string
}

// New selects the provider implementation. Anything short of a fully
// configured provider yields the disabled client, whose calls fail fast so
// callers exercise their fallbacks.
func New(provider, apiKey, model string, timeout time.Duration) Client {
	switch provider {
	case "openai":
		if apiKey != "" {
			return newOpenAIClient(apiKey, model, timeout)
		}
		log.Warn("OPENAI_API_KEY is not set, running with the classifier disabled")
	case "", "disabled":
		log.Info("Classifier disabled by configuration")
	default:
		log.Warnf("Unknown classifier provider %q, running with the classifier disabled", provider)
	}
	return disabledClient{}
}

type disabledClient struct{}

func (disabledClient) AnalyzeReport(string, models.GeoPoint, time.Time) (*ReportAnalysis, error) {
	return nil, ErrDisabled
}

func (disabledClient) AssessRoute(models.GeoPoint, models.GeoPoint, string) (*RouteAssessment, error) {
	return nil, ErrDisabled
}

func (disabledClient) AssessLocation(*models.Journey, models.GeoPoint) (*LocationAssessment, error) {
	return nil, ErrDisabled
}

func (disabledClient) ProcessAlert(string, string, models.GeoPoint, string) (*AlertAssessment, error) {
	return nil, ErrDisabled
}

func (disabledClient) SourceName() string { return "disabled" }
