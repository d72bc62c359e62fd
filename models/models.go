package models

import (
	"time"
)

// Severity levels shared by reports and alerts.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Report statuses.
const (
	ReportStatusSubmitted = "submitted"
	ReportStatusVerified  = "verified"
	ReportStatusDisputed  = "disputed"
)

// Alert statuses.
const (
	AlertStatusActive   = "active"
	AlertStatusDisputed = "disputed"
	AlertStatusResolved = "resolved"
)

// Journey statuses. Completed and emergency are terminal.
const (
	JourneyStatusActive    = "active"
	JourneyStatusCompleted = "completed"
	JourneyStatusEmergency = "emergency"
)

// Verification kinds.
const (
	VerificationConfirm = "confirm"
	VerificationDispute = "dispute"
)

// ValidSeverity reports whether s is one of the known severity levels.
func ValidSeverity(s string) bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// SeverityRank orders severities for sorting: high before medium before low.
// Unknown severities sort last, together with low.
func SeverityRank(s string) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point is inside the lat/lng value ranges.
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

type User struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Report struct {
	Id                      string    `json:"id"`
	ReporterId              string    `json:"reporter_id"`
	RawText                 string    `json:"-"`
	AnonymizedText          string    `json:"anonymized_text"`
	Location                GeoPoint  `json:"location"`
	Severity                string    `json:"severity"`
	Categories              []string  `json:"categories"`
	Status                  string    `json:"status"`
	VerificationCount       int       `json:"verification_count"`
	RequiresImmediateAction bool      `json:"requires_immediate_action"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// AreaReport is the sanitized projection returned by area queries.
// Raw text and reporter identity are never part of it.
type AreaReport struct {
	Id         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Categories []string  `json:"categories"`
	Severity   string    `json:"severity"`
	DistanceKm float64   `json:"distance_km"`
}

type Alert struct {
	Id                string    `json:"id"`
	ReporterId        string    `json:"reporter_id"`
	Type              string    `json:"type"`
	Description       string    `json:"description"`
	Location          GeoPoint  `json:"location"`
	Severity          string    `json:"severity"`
	Status            string    `json:"status"`
	VerificationCount int       `json:"verification_count"`
	ResolutionDetails string    `json:"resolution_details,omitempty"`
	DistanceKm        float64   `json:"distance_km,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RouteSafety is the per-journey safety profile produced by the classifier
// (or its fallback default).
type RouteSafety struct {
	OverallRisk                string   `json:"overall_risk"`
	RiskAreasOnRoute           []string `json:"risk_areas_on_route"`
	TimeFactor                 string   `json:"time_factor"`
	AlternativeRoutesAvailable bool     `json:"alternative_routes_available"`
}

type Journey struct {
	Id                    string      `json:"id"`
	UserId                string      `json:"user_id"`
	Start                 GeoPoint    `json:"start"`
	Destination           GeoPoint    `json:"destination"`
	TravelMode            string      `json:"travel_mode"`
	Status                string      `json:"status"`
	RouteSafety           RouteSafety `json:"route_safety"`
	SafetyRecommendations []string    `json:"safety_recommendations"`
	StartTime             time.Time   `json:"start_time"`
	EndTime               *time.Time  `json:"end_time,omitempty"`
}

type EmergencyContact struct {
	Id           int64     `json:"id"`
	UserId       string    `json:"user_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Relationship string    `json:"relationship,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SosEvent is an append-only record of one SOS fan-out.
type SosEvent struct {
	Id               int64     `json:"id"`
	UserId           string    `json:"user_id"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Message          string    `json:"message"`
	ContactsNotified []string  `json:"contacts_notified"`
	CreatedAt        time.Time `json:"created_at"`
}

type Volunteer struct {
	Id        string   `json:"id"`
	Name      string   `json:"name"`
	Expertise []string `json:"expertise"`
}

// NotificationResult is the per-contact outcome of an SOS fan-out.
type NotificationResult struct {
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	Status       string `json:"status"`
	MessageId    string `json:"message_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// EmergencyResult is returned by journey emergencies and direct SOS.
type EmergencyResult struct {
	EmergencyId         string               `json:"emergency_id"`
	NotifiedContacts    int                  `json:"notified_contacts"`
	AuthoritiesAlerted  bool                 `json:"authorities_alerted"`
	NotificationResults []NotificationResult `json:"notification_results"`
}

// JourneySummary is returned when a journey ends.
type JourneySummary struct {
	JourneyId   string     `json:"journey_id"`
	Status      string     `json:"status"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	SafetyScore int        `json:"safety_score"`
}

