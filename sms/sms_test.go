package sms

import (
	"testing"
	"time"

	"safepulse/models"
)

func TestSosBody(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		location models.GeoPoint
		message  string
		want     string
	}{
		{
			name:     "with message",
			userName: "Asha",
			location: models.GeoPoint{Latitude: 22.5726, Longitude: 88.3639},
			message:  "Near the ferry ghat",
			want: "EMERGENCY SOS from Asha! Location: https://www.google.com/maps?q=22.5726,88.3639\n" +
				"Message: Near the ferry ghat\n" +
				"Please respond immediately or contact authorities.",
		},
		{
			name:     "without message",
			userName: "User",
			location: models.GeoPoint{Latitude: -1.5, Longitude: 30},
			message:  "",
			want: "EMERGENCY SOS from User! Location: https://www.google.com/maps?q=-1.5,30\n" +
				"Please respond immediately or contact authorities.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SosBody(tt.userName, tt.location, tt.message)
			if got != tt.want {
				t.Errorf("SosBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "already prefixed", phone: "+15550100", want: "+15550100"},
		{name: "missing plus", phone: "15550100", want: "+15550100"},
		{name: "surrounding spaces", phone: " 15550100 ", want: "+15550100"},
		{name: "empty", phone: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeNumber(tt.phone); got != tt.want {
				t.Errorf("NormalizeNumber(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestNewSenderWithoutCredentials(t *testing.T) {
	sender := NewSender("", "token", "+15550100", 15*time.Second)
	if !sender.Simulated() {
		t.Errorf("NewSender() with missing account sid should be simulated")
	}

	messageId, err := sender.Send("15550100", "test")
	if err != nil {
		t.Errorf("Send() in simulation mode returned error: %v", err)
	}
	if messageId != "" {
		t.Errorf("Send() in simulation mode message id = %q, want empty", messageId)
	}
}

func TestSendSosNotificationsSimulated(t *testing.T) {
	sender := NewSender("", "", "", 15*time.Second)
	contacts := []models.EmergencyContact{
		{Name: "Maya", Phone: "15550100"},
		{Name: "No Phone"},
		{Name: "Ravi", Phone: "+15550111"},
	}

	results := sender.SendSosNotifications("Asha", models.GeoPoint{Latitude: 22.5726, Longitude: 88.3639}, "Help", contacts)

	if len(results) != 2 {
		t.Fatalf("SendSosNotifications() results = %d, want 2", len(results))
	}
	if results[0].ContactName != "Maya" || results[0].ContactPhone != "15550100" {
		t.Errorf("SendSosNotifications() first result = %+v", results[0])
	}
	if results[1].ContactName != "Ravi" {
		t.Errorf("SendSosNotifications() second result = %+v", results[1])
	}
	for _, result := range results {
		if result.Status != StatusSimulated {
			t.Errorf("SendSosNotifications() status for %s = %q, want %q", result.ContactName, result.Status, StatusSimulated)
		}
	}
	if got := Delivered(results); got != 2 {
		t.Errorf("Delivered() = %d, want 2", got)
	}
}
