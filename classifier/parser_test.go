package classifier

import (
	"reflect"
	"testing"

	"safepulse/models"
)

func TestParseReportAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  bool
		expected *ReportAnalysis
	}{
		{
			name: "valid JSON response",
			response: `{
				"anonymized_text": "Someone followed me from the metro station to the market.",
				"severity": "high",
				"categories": ["stalking", "harassment"],
				"requires_immediate_action": true
			}`,
			wantErr: false,
			expected: &ReportAnalysis{
				AnonymizedText:          "Someone followed me from the metro station to the market.",
				Severity:                "high",
				Categories:              []string{"stalking", "harassment"},
				RequiresImmediateAction: true,
			},
		},
		{
			name: "markdown formatted JSON",
			response: `Here is the analysis:

` + "```" + `json
{
  "anonymized_text": "A group was shouting threats near the bus stop.",
  "severity": "medium",
  "categories": ["unsafe_environment"],
  "requires_immediate_action": false
}
` + "```" + `

No immediate action required.`,
			wantErr: false,
			expected: &ReportAnalysis{
				AnonymizedText:          "A group was shouting threats near the bus stop.",
				Severity:                "medium",
				Categories:              []string{"unsafe_environment"},
				RequiresImmediateAction: false,
			},
		},
		{
			name: "markdown formatted JSON without language identifier",
			response: "```" + `
{
  "anonymized_text": "Street lighting is broken along the walkway.",
  "severity": "low",
  "categories": ["general_concern"],
  "requires_immediate_action": false
}
` + "```" + ``,
			wantErr: false,
			expected: &ReportAnalysis{
				AnonymizedText:          "Street lighting is broken along the walkway.",
				Severity:                "low",
				Categories:              []string{"general_concern"},
				RequiresImmediateAction: false,
			},
		},
		{
			name:     "JSON embedded in prose",
			response: `The result is {"anonymized_text": "Someone grabbed my bag.", "severity": "high", "categories": ["physical_threat"], "requires_immediate_action": true} as requested.`,
			wantErr:  false,
			expected: &ReportAnalysis{
				AnonymizedText:          "Someone grabbed my bag.",
				Severity:                "high",
				Categories:              []string{"physical_threat"},
				RequiresImmediateAction: true,
			},
		},
		{
			name:     "invalid JSON",
			response: `{"anonymized_text": "Broken`,
			wantErr:  true,
			expected: nil,
		},
		{
			name: "missing anonymized text",
			response: `{
				"severity": "medium",
				"categories": ["general_concern"],
				"requires_immediate_action": false
			}`,
			wantErr:  true,
			expected: nil,
		},
		{
			name: "invalid severity",
			response: `{
				"anonymized_text": "Some text",
				"severity": "critical",
				"categories": ["general_concern"],
				"requires_immediate_action": false
			}`,
			wantErr:  true,
			expected: nil,
		},
		{
			name: "empty categories",
			response: `{
				"anonymized_text": "Some text",
				"severity": "medium",
				"categories": [],
				"requires_immediate_action": false
			}`,
			wantErr:  true,
			expected: nil,
		},
		{
			name: "blank category entry",
			response: `{
				"anonymized_text": "Some text",
				"severity": "medium",
				"categories": ["harassment", "  "],
				"requires_immediate_action": false
			}`,
			wantErr:  true,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseReportAnalysis(tt.response)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseReportAnalysis() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("ParseReportAnalysis() unexpected error: %v", err)
				return
			}

			if result.AnonymizedText != tt.expected.AnonymizedText {
				t.Errorf("ParseReportAnalysis() anonymized_text = %v, want %v", result.AnonymizedText, tt.expected.AnonymizedText)
			}

			if result.Severity != tt.expected.Severity {
				t.Errorf("ParseReportAnalysis() severity = %v, want %v", result.Severity, tt.expected.Severity)
			}

			if !reflect.DeepEqual(result.Categories, tt.expected.Categories) {
				t.Errorf("ParseReportAnalysis() categories = %v, want %v", result.Categories, tt.expected.Categories)
			}

			if result.RequiresImmediateAction != tt.expected.RequiresImmediateAction {
				t.Errorf("ParseReportAnalysis() requires_immediate_action = %v, want %v", result.RequiresImmediateAction, tt.expected.RequiresImmediateAction)
			}
		})
	}
}

func TestParseRouteAssessment(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  bool
		expected *RouteAssessment
	}{
		{
			name: "valid JSON response",
			response: `{
				"route_safety": {
					"overall_risk": "medium",
					"risk_areas_on_route": ["poorly lit underpass near km 2"],
					"time_factor": "night",
					"alternative_routes_available": true
				},
				"safety_recommendations": ["Take the main road instead of the underpass", "Share your live location"]
			}`,
			wantErr: false,
			expected: &RouteAssessment{
				RouteSafety: models.RouteSafety{
					OverallRisk:                "medium",
					RiskAreasOnRoute:           []string{"poorly lit underpass near km 2"},
					TimeFactor:                 "night",
					AlternativeRoutesAvailable: true,
				},
				SafetyRecommendations: []string{"Take the main road instead of the underpass", "Share your live location"},
			},
		},
		{
			name: "markdown formatted JSON",
			response: "```" + `json
{
  "route_safety": {
    "overall_risk": "low",
    "risk_areas_on_route": [],
    "time_factor": "day",
    "alternative_routes_available": false
  },
  "safety_recommendations": ["Stay on the marked footpath"]
}
` + "```" + ``,
			wantErr: false,
			expected: &RouteAssessment{
				RouteSafety: models.RouteSafety{
					OverallRisk:                "low",
					RiskAreasOnRoute:           []string{},
					TimeFactor:                 "day",
					AlternativeRoutesAvailable: false,
				},
				SafetyRecommendations: []string{"Stay on the marked footpath"},
			},
		},
		{
			name: "missing risk areas normalized to empty slice",
			response: `{
				"route_safety": {
					"overall_risk": "low",
					"time_factor": "evening",
					"alternative_routes_available": false
				},
				"safety_recommendations": ["Keep your phone charged"]
			}`,
			wantErr: false,
			expected: &RouteAssessment{
				RouteSafety: models.RouteSafety{
					OverallRisk:                "low",
					RiskAreasOnRoute:           []string{},
					TimeFactor:                 "evening",
					AlternativeRoutesAvailable: false,
				},
				SafetyRecommendations: []string{"Keep your phone charged"},
			},
		},
		{
			name: "invalid overall risk",
			response: `{
				"route_safety": {
					"overall_risk": "extreme",
					"time_factor": "day",
					"alternative_routes_available": false
				},
				"safety_recommendations": ["Something"]
			}`,
			wantErr:  true,
			expected: nil,
		},
		{
			name: "missing time factor",
			response: `{
				"route_safety": {
					"overall_risk": "low",
					"alternative_routes_available": false
				},
				"safety_recommendations": ["Something"]
			}`,
			wantErr:  true,
			expected: nil,
		},
		{
			name: "empty recommendations",
			response: `{
				"route_safety": {
					"overall_risk": "low",
					"time_factor": "day",
					"alternative_routes_available": false
				},
				"safety_recommendations": []
			}`,
			wantErr:  true,
			expected: nil,
		},
		{
			name:     "invalid JSON",
			response: `{"route_safety": {`,
			wantErr:  true,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseRouteAssessment(tt.response)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRouteAssessment() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("ParseRouteAssessment() unexpected error: %v", err)
				return
			}

			if !reflect.DeepEqual(result.RouteSafety, tt.expected.RouteSafety) {
				t.Errorf("ParseRouteAssessment() route_safety = %+v, want %+v", result.RouteSafety, tt.expected.RouteSafety)
			}

			if !reflect.DeepEqual(result.SafetyRecommendations, tt.expected.SafetyRecommendations) {
				t.Errorf("ParseRouteAssessment() safety_recommendations = %v, want %v", result.SafetyRecommendations, tt.expected.SafetyRecommendations)
			}
		})
	}
}

func TestParseLocationAssessment(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  bool
		expected *LocationAssessment
	}{
		{
			name: "valid JSON response",
			response: `{
				"nearby_risks": ["recent harassment report 400m north"],
				"alerts": ["Avoid the park entrance after dark"],
				"destination_reached": false
			}`,
			wantErr: false,
			expected: &LocationAssessment{
				NearbyRisks:        []string{"recent harassment report 400m north"},
				Alerts:             []string{"Avoid the park entrance after dark"},
				DestinationReached: false,
			},
		},
		{
			name:     "empty object defaults",
			response: `{}`,
			wantErr:  false,
			expected: &LocationAssessment{
				NearbyRisks:        []string{},
				Alerts:             []string{},
				DestinationReached: false,
			},
		},
		{
			name: "markdown formatted JSON",
			response: "```" + `json
{
  "nearby_risks": [],
  "alerts": [],
  "destination_reached": true
}
` + "```" + ``,
			wantErr: false,
			expected: &LocationAssessment{
				NearbyRisks:        []string{},
				Alerts:             []string{},
				DestinationReached: true,
			},
		},
		{
			name:     "invalid JSON",
			response: `nearby risks: none`,
			wantErr:  true,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseLocationAssessment(tt.response)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseLocationAssessment() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("ParseLocationAssessment() unexpected error: %v", err)
				return
			}

			if !reflect.DeepEqual(result.NearbyRisks, tt.expected.NearbyRisks) {
				t.Errorf("ParseLocationAssessment() nearby_risks = %v, want %v", result.NearbyRisks, tt.expected.NearbyRisks)
			}

			if !reflect.DeepEqual(result.Alerts, tt.expected.Alerts) {
				t.Errorf("ParseLocationAssessment() alerts = %v, want %v", result.Alerts, tt.expected.Alerts)
			}

			if result.DestinationReached != tt.expected.DestinationReached {
				t.Errorf("ParseLocationAssessment() destination_reached = %v, want %v", result.DestinationReached, tt.expected.DestinationReached)
			}
		})
	}
}

func TestParseAlertAssessment(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  bool
		expected *AlertAssessment
	}{
		{
			name:     "valid JSON response",
			response: `{"severity": "high"}`,
			wantErr:  false,
			expected: &AlertAssessment{Severity: "high"},
		},
		{
			name: "markdown formatted JSON",
			response: "```" + `json
{"severity": "low"}
` + "```" + ``,
			wantErr:  false,
			expected: &AlertAssessment{Severity: "low"},
		},
		{
			name:     "invalid severity",
			response: `{"severity": "critical"}`,
			wantErr:  true,
			expected: nil,
		},
		{
			name:     "missing severity",
			response: `{}`,
			wantErr:  true,
			expected: nil,
		},
		{
			name:     "invalid JSON",
			response: `severity high`,
			wantErr:  true,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseAlertAssessment(tt.response)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAlertAssessment() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("ParseAlertAssessment() unexpected error: %v", err)
				return
			}

			if result.Severity != tt.expected.Severity {
				t.Errorf("ParseAlertAssessment() severity = %v, want %v", result.Severity, tt.expected.Severity)
			}
		})
	}
}
