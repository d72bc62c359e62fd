package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"

	"safepulse/models"
)

const openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// systemPrompt pins the collaborator to JSON-only answers for the four tasks.
const systemPrompt = `You are the safety analysis engine of a community safety service. ` +
	`The user message is a single JSON object whose "task" field selects the job. ` +
	`Respond with a single valid JSON object and nothing else. No markdown, no commentary.

Task "analyze_and_anonymize_report": input has text, location and timestamp. ` +
	`Remove every piece of personally identifiable information from the text ` +
	`(names, phone numbers, addresses, workplaces, vehicle plates). Respond with ` +
	`{"anonymized_text": "...", "severity": "low|medium|high", ` +
	`"categories": ["harassment"|"stalking"|"physical_threat"|"unsafe_environment"|"general_concern", ...], ` +
	`"requires_immediate_action": true|false}.

Task "analyze_route_safety_and_recommendations": input has start_location, destination, travel_mode and current_time. ` +
	`Respond with {"route_safety": {"overall_risk": "low|medium|high", ` +
	`"risk_areas_on_route": ["..."], "time_factor": "day|evening|night", ` +
	`"alternative_routes_available": true|false}, "safety_recommendations": ["..."]}.

Task "analyze_current_location_safety": input has the journey, current_location and timestamp. ` +
	`Respond with {"nearby_risks": ["..."], "alerts": ["..."], "destination_reached": true|false}.

Task "process_emergency_alert": input has alert_type, description, location, reported_severity and timestamp. ` +
	`Respond with {"severity": "low|medium|high"}.`

// ChatRequest is the request to the OpenAI chat completions API.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the response from the OpenAI chat completions API.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

// Choice is a single completion choice.
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage is the message in a completion choice.
type ResponseMessage struct {
	Content any `json:"content"`
}

type openAIClient struct {
	apiKey string
	model  string
	client *http.Client
}

func newOpenAIClient(apiKey, model string, timeout time.Duration) *openAIClient {
	return &openAIClient{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *openAIClient) SourceName() string {
	return "ChatGPT"
}

func (c *openAIClient) AnalyzeReport(text string, location models.GeoPoint, timestamp time.Time) (*ReportAnalysis, error) {
	response, err := c.run(TaskAnalyzeReport, map[string]any{
		"task":      TaskAnalyzeReport,
		"text":      text,
		"location":  location,
		"timestamp": timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	return ParseReportAnalysis(response)
}

func (c *openAIClient) AssessRoute(start, destination models.GeoPoint, travelMode string) (*RouteAssessment, error) {
	response, err := c.run(TaskAssessRoute, map[string]any{
		"task":           TaskAssessRoute,
		"start_location": start,
		"destination":    destination,
		"travel_mode":    travelMode,
		"current_time":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	return ParseRouteAssessment(response)
}

func (c *openAIClient) AssessLocation(journey *models.Journey, current models.GeoPoint) (*LocationAssessment, error) {
	response, err := c.run(TaskAssessLocation, map[string]any{
		"task":             TaskAssessLocation,
		"journey":          journey,
		"current_location": current,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	return ParseLocationAssessment(response)
}

func (c *openAIClient) ProcessAlert(alertType, description string, location models.GeoPoint, severity string) (*AlertAssessment, error) {
	response, err := c.run(TaskProcessAlert, map[string]any{
		"task":              TaskProcessAlert,
		"alert_type":        alertType,
		"description":       description,
		"location":          location,
		"reported_severity": severity,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	return ParseAlertAssessment(response)
}

// run sends one task payload as the user message and returns the raw
// completion text.
func (c *openAIClient) run(task string, payload map[string]any) (string, error) {
	input, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task payload: %w", err)
	}

	chatReq := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(input)},
		},
	}

	reqBody, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", openAIAPIURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Debugf("Sending %s request to OpenAI", task)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := chatResp.Choices[0].Message.Content
	if text, ok := content.(string); ok {
		return text, nil
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response content: %w", err)
	}
	return string(raw), nil
}
