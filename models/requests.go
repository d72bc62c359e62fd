package models

// RegisterUserRequest upserts a user profile. Id is optional; a missing id
// is minted server-side.
type RegisterUserRequest struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RegisterUserResponse struct {
	UserId  string `json:"user_id"`
	Message string `json:"message"`
}

type AddContactRequest struct {
	UserId       string `json:"user_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type SubmitReportRequest struct {
	UserId   string   `json:"user_id"`
	Text     string   `json:"text"`
	Location GeoPoint `json:"location"`
}

type SubmitReportResponse struct {
	ReportId                string   `json:"report_id"`
	Severity                string   `json:"severity"`
	Categories              []string `json:"categories"`
	RequiresImmediateAction bool     `json:"requires_immediate_action"`
	Message                 string   `json:"message"`
}

// VerifyRequest applies one confirm or dispute action to a record.
type VerifyRequest struct {
	Kind string `json:"kind"`
}

type VerifyResponse struct {
	Status            string `json:"status"`
	VerificationCount int    `json:"verification_count"`
	Severity          string `json:"severity,omitempty"`
	Message           string `json:"message"`
}

type CreateAlertRequest struct {
	UserId      string   `json:"user_id"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Location    GeoPoint `json:"location"`
	Severity    string   `json:"severity"`
}

type CreateAlertResponse struct {
	AlertId             string `json:"alert_id"`
	Severity            string `json:"severity"`
	AuthoritiesNotified int    `json:"authorities_notified"`
	Message             string `json:"message"`
}

type ResolveAlertRequest struct {
	ResolutionDetails string `json:"resolution_details"`
}

type StartJourneyRequest struct {
	UserId      string   `json:"user_id"`
	Start       GeoPoint `json:"start"`
	Destination GeoPoint `json:"destination"`
	TravelMode  string   `json:"travel_mode"`
}

type StartJourneyResponse struct {
	JourneyId             string      `json:"journey_id"`
	RouteSafety           RouteSafety `json:"route_safety"`
	SafetyRecommendations []string    `json:"safety_recommendations"`
}

type UpdateLocationRequest struct {
	Location GeoPoint `json:"location"`
}

type UpdateLocationResponse struct {
	NearbyRisks        []string `json:"nearby_risks"`
	Alerts             []string `json:"alerts"`
	DestinationReached bool     `json:"destination_reached"`
	JourneyStatus      string   `json:"journey_status"`
}

// EmergencyRequest carries optional details for a journey emergency.
// Location falls back to the journey start when absent.
type EmergencyRequest struct {
	Location    *GeoPoint `json:"location"`
	Description string    `json:"description"`
}

type SosRequest struct {
	UserId   string   `json:"user_id"`
	Location GeoPoint `json:"location"`
	Message  string   `json:"message"`
}

type CommunitySupportResponse struct {
	Volunteers []Volunteer `json:"volunteers"`
}
