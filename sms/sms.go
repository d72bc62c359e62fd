// Package sms delivers emergency notifications through the Twilio SMS
// gateway. With incomplete credentials the sender runs in simulation mode
// and logs every message instead of sending it, so the SOS flow stays
// usable in development.
package sms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"safepulse/models"
)

// Per-contact notification statuses.
const (
	StatusSent      = "sent"
	StatusSimulated = "simulated"
	StatusError     = "error"
)

// Sender sends SOS messages to emergency contacts.
type Sender struct {
	client     *twilio.RestClient
	fromNumber string
	simulate   bool
}

// NewSender builds a Sender. Any missing credential switches it to
// simulation mode.
func NewSender(accountSid, authToken, fromNumber string, timeout time.Duration) *Sender {
	if accountSid == "" || authToken == "" || fromNumber == "" {
		log.Warn("Twilio credentials are not fully configured, SMS sending is simulated")
		return &Sender{simulate: true}
	}

	httpClient := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(accountSid, authToken),
	}
	httpClient.SetTimeout(timeout)

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
		Client:   httpClient,
	})
	return &Sender{client: client, fromNumber: fromNumber}
}

// Simulated reports whether the sender only logs messages.
func (s *Sender) Simulated() bool {
	return s.simulate
}

// NormalizeNumber prepends the leading + the gateway expects when it is
// missing.
func NormalizeNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone != "" && !strings.HasPrefix(phone, "+") {
		return "+" + phone
	}
	return phone
}

func formatCoord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SosBody renders the SOS text sent to every contact.
func SosBody(userName string, location models.GeoPoint, message string) string {
	body := fmt.Sprintf("EMERGENCY SOS from %s! Location: https://www.google.com/maps?q=%s,%s",
		userName, formatCoord(location.Latitude), formatCoord(location.Longitude))
	if message != "" {
		body += "\nMessage: " + message
	}
	body += "\nPlease respond immediately or contact authorities."
	return body
}

// Send delivers one message to a single phone number and returns the
// provider message id. In simulation mode it only logs.
func (s *Sender) Send(toNumber, body string) (string, error) {
	toNumber = NormalizeNumber(toNumber)
	if s.simulate {
		log.Infof("SIMULATED SMS to %s: %s", toNumber, body)
		return "", nil
	}

	params := &api.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send SMS to %s: %w", toNumber, err)
	}
	if resp.Sid != nil {
		return *resp.Sid, nil
	}
	return "", nil
}

// SendSosNotifications fans an SOS out to every contact that has a phone
// number. Contacts without one are skipped. Each attempted contact gets a
// result; a failed send is recorded in it, never returned as an error.
func (s *Sender) SendSosNotifications(userName string, location models.GeoPoint, message string, contacts []models.EmergencyContact) []models.NotificationResult {
	body := SosBody(userName, location, message)

	results := make([]models.NotificationResult, 0, len(contacts))
	for _, contact := range contacts {
		if contact.Phone == "" {
			log.Warnf("Skipping emergency contact %s without a phone number", contact.Name)
			continue
		}

		result := models.NotificationResult{
			ContactName:  contact.Name,
			ContactPhone: contact.Phone,
		}

		messageId, err := s.Send(contact.Phone, body)
		switch {
		case err != nil:
			log.WithError(err).Errorf("Failed to notify emergency contact %s", contact.Name)
			result.Status = StatusError
			result.Error = err.Error()
		case s.simulate:
			result.Status = StatusSimulated
		default:
			result.Status = StatusSent
			result.MessageId = messageId
		}
		results = append(results, result)
	}
	return results
}

// Delivered counts the results that reached the gateway, simulated ones
// included.
func Delivered(results []models.NotificationResult) int {
	count := 0
	for _, result := range results {
		if result.Status == StatusSent || result.Status == StatusSimulated {
			count++
		}
	}
	return count
}
