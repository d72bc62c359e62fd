// Package services orchestrates the safety workflows: report intake and
// verification, emergency alerts, tracked journeys and SOS fan-out.
// Workflow rules live here; persistence sits in database and outbound
// collaborators in classifier, sms and email. Collaborator faults degrade
// to documented defaults and never fail the primary operation.
package services

import (
	"time"

	"safepulse/metrics"
	"safepulse/models"
	"safepulse/sms"
)

// observeClassifier records one classifier call. A failed call counts as a
// fallback since every workflow substitutes defaults for it.
func observeClassifier(task string, start time.Time, err error) {
	metrics.ClassifierDurationSeconds.WithLabelValues(task).Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = "fallback"
	}
	metrics.ClassifierRequestsTotal.WithLabelValues(task, result).Inc()
}

// countSosResults feeds per-contact delivery statuses into metrics and
// returns the phones that were reached, simulated sends included.
func countSosResults(results []models.NotificationResult) []string {
	phones := make([]string, 0, len(results))
	for _, result := range results {
		metrics.SosNotificationsTotal.WithLabelValues(result.Status).Inc()
		if result.Status == sms.StatusSent || result.Status == sms.StatusSimulated {
			phones = append(phones, result.ContactPhone)
		}
	}
	return phones
}
