package classifier

import (
	"encoding/json"
	"errors"
	"strings"

	"safepulse/models"
)

// extractJSONFromMarkdown extracts JSON from markdown code blocks
func extractJSONFromMarkdown(response string) string {
	// Look for JSON code blocks with ``` markers
	startMarker := "```"
	endMarker := "```"

	startIdx := strings.Index(response, startMarker)
	if startIdx == -1 {
		// No code block found, try to find JSON object directly
		startIdx = strings.Index(response, "{")
		if startIdx == -1 {
			return response
		}
		endIdx := strings.LastIndex(response, "}")
		if endIdx == -1 {
			return response
		}
		return strings.TrimSpace(response[startIdx : endIdx+1])
	}

	// Find the end of the first code block
	endIdx := strings.Index(response[startIdx+len(startMarker):], endMarker)
	if endIdx == -1 {
		return response
	}
	endIdx += startIdx + len(startMarker)

	// Extract content between the markers
	content := response[startIdx+len(startMarker) : endIdx]

	// Remove the language identifier if present (e.g., "json")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) > 0 && (strings.TrimSpace(lines[0]) == "json" || strings.TrimSpace(lines[0]) == "") {
		content = strings.Join(lines[1:], "\n")
	}

	return strings.TrimSpace(content)
}

// ParseReportAnalysis parses a report analysis response and validates it
func ParseReportAnalysis(response string) (*ReportAnalysis, error) {
	jsonContent := extractJSONFromMarkdown(strings.TrimSpace(response))

	var result ReportAnalysis
	err := json.Unmarshal([]byte(jsonContent), &result)
	if err == nil {
		if result.AnonymizedText == "" {
			return nil, errors.New("anonymized_text is required")
		}
		if !models.ValidSeverity(result.Severity) {
			return nil, errors.New("severity must be one of low, medium, high")
		}
		if len(result.Categories) == 0 {
			return nil, errors.New("at least one category is required")
		}
		for _, category := range result.Categories {
			if strings.TrimSpace(category) == "" {
				return nil, errors.New("categories must not contain empty entries")
			}
		}
		return &result, nil
	}

	return nil, errors.New("failed to parse JSON response: " + err.Error())
}

// ParseRouteAssessment parses a route assessment response and validates it
func ParseRouteAssessment(response string) (*RouteAssessment, error) {
	jsonContent := extractJSONFromMarkdown(strings.TrimSpace(response))

	var result RouteAssessment
	err := json.Unmarshal([]byte(jsonContent), &result)
	if err == nil {
		if !models.ValidSeverity(result.RouteSafety.OverallRisk) {
			return nil, errors.New("overall_risk must be one of low, medium, high")
		}
		if result.RouteSafety.TimeFactor == "" {
			return nil, errors.New("time_factor is required")
		}
		if len(result.SafetyRecommendations) == 0 {
			return nil, errors.New("at least one safety recommendation is required")
		}
		if result.RouteSafety.RiskAreasOnRoute == nil {
			result.RouteSafety.RiskAreasOnRoute = []string{}
		}
		return &result, nil
	}

	return nil, errors.New("failed to parse JSON response: " + err.Error())
}

// ParseLocationAssessment parses a location assessment response
func ParseLocationAssessment(response string) (*LocationAssessment, error) {
	jsonContent := extractJSONFromMarkdown(strings.TrimSpace(response))

	var result LocationAssessment
	err := json.Unmarshal([]byte(jsonContent), &result)
	if err == nil {
		if result.NearbyRisks == nil {
			result.NearbyRisks = []string{}
		}
		if result.Alerts == nil {
			result.Alerts = []string{}
		}
		return &result, nil
	}

	return nil, errors.New("failed to parse JSON response: " + err.Error())
}

// ParseAlertAssessment parses an alert severity response and validates it
func ParseAlertAssessment(response string) (*AlertAssessment, error) {
	jsonContent := extractJSONFromMarkdown(strings.TrimSpace(response))

	var result AlertAssessment
	err := json.Unmarshal([]byte(jsonContent), &result)
	if err == nil {
		if !models.ValidSeverity(result.Severity) {
			return nil, errors.New("severity must be one of low, medium, high")
		}
		return &result, nil
	}

	return nil, errors.New("failed to parse JSON response: " + err.Error())
}
