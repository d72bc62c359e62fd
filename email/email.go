// Package email sends verification outcome notifications through SendGrid.
package email

import (
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"safepulse/models"
)

// Sender handles outcome email delivery. Without an API key it is disabled
// and only logs.
type Sender struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
	disabled  bool
}

// NewSender creates a new email sender
func NewSender(apiKey, fromName, fromEmail string) *Sender {
	if apiKey == "" {
		log.Warn("SENDGRID_API_KEY is not set, outcome emails are disabled")
		return &Sender{disabled: true}
	}

	return &Sender{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// SendReportVerified tells the reporter their report reached community
// verification.
func (e *Sender) SendReportVerified(recipient string, report *models.Report) error {
	subject := "Your safety report has been verified"
	text := e.getReportVerifiedText(report)
	html := e.getReportVerifiedHtml(report)
	return e.sendOneEmail(recipient, subject, text, html)
}

// SendAlertEscalated tells the alert owner that community confirmations
// raised their alert to high severity.
func (e *Sender) SendAlertEscalated(recipient string, alert *models.Alert) error {
	subject := "Your emergency alert has been escalated"
	text := e.getAlertEscalatedText(alert)
	html := e.getAlertEscalatedHtml(alert)
	return e.sendOneEmail(recipient, subject, text, html)
}

// sendOneEmail sends an email to a single recipient
func (e *Sender) sendOneEmail(recipient, subject, text, html string) error {
	if recipient == "" {
		return nil
	}
	if e.disabled {
		log.Infof("Email disabled, skipping %q to %s", subject, recipient)
		return nil
	}

	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail(recipient, recipient)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject

	p := mail.NewPersonalization()
	p.AddTos(to)
	message.AddPersonalizations(p)

	message.AddContent(mail.NewContent("text/plain", text))
	message.AddContent(mail.NewContent("text/html", html))

	response, err := e.client.Send(message)
	if err != nil {
		return err
	}

	log.Infof("Email sent to %s! Status: %d", recipient, response.StatusCode)
	return nil
}

// getReportVerifiedText returns the plain text content for report outcome emails
func (e *Sender) getReportVerifiedText(report *models.Report) string {
	return fmt.Sprintf(`Hello,

Your safety report has been verified by the community.

REPORT:
- Severity: %s
- Categories: %s
- Verifications: %d

Verified reports are shown to everyone planning a route through the area.

Best regards,
The SafePulse Team`,
		report.Severity,
		strings.Join(report.Categories, ", "),
		report.VerificationCount)
}

// getReportVerifiedHtml returns the HTML content for report outcome emails
func (e *Sender) getReportVerifiedHtml(report *models.Report) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Report Verified</title>
</head>
<body>
    <h2>Hello,</h2>
    <p>Your safety report has been verified by the community.</p>

    <h3>Report</h3>
    <p><strong>Severity:</strong> %s</p>
    <p><strong>Categories:</strong> %s</p>
    <p><strong>Verifications:</strong> %d</p>

    <p>Verified reports are shown to everyone planning a route through the area.</p>

    <p>Best regards,<br>The SafePulse Team</p>
</body>
</html>`,
		report.Severity,
		strings.Join(report.Categories, ", "),
		report.VerificationCount)
}

// getAlertEscalatedText returns the plain text content for alert outcome emails
func (e *Sender) getAlertEscalatedText(alert *models.Alert) string {
	return fmt.Sprintf(`Hello,

The community has confirmed your emergency alert and raised it to high severity.

ALERT:
- Type: %s
- Description: %s
- Confirmations: %d

High severity alerts are surfaced first to everyone nearby.

Best regards,
The SafePulse Team`,
		alert.Type,
		alert.Description,
		alert.VerificationCount)
}

// getAlertEscalatedHtml returns the HTML content for alert outcome emails
func (e *Sender) getAlertEscalatedHtml(alert *models.Alert) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Alert Escalated</title>
</head>
<body>
    <h2>Hello,</h2>
    <p>The community has confirmed your emergency alert and raised it to high severity.</p>

    <h3>Alert</h3>
    <p><strong>Type:</strong> %s</p>
    <p><strong>Description:</strong> %s</p>
    <p><strong>Confirmations:</strong> %d</p>

    <p>High severity alerts are surfaced first to everyone nearby.</p>

    <p>Best regards,<br>The SafePulse Team</p>
</body>
</html>`,
		alert.Type,
		alert.Description,
		alert.VerificationCount)
}
