// Package consensus holds the pure transition rules for community
// verification of reports and alerts. The database layer applies these
// outcomes inside a per-record transaction; nothing here touches storage.
package consensus

import (
	"safepulse/models"
)

// ConfirmThreshold is the number of confirmations that escalates a record.
const ConfirmThreshold = 3

// ReportOutcome is the record state after one verification action.
// Escalated is set only on the action that crosses the threshold, so
// threshold side effects fire at most once per record.
type ReportOutcome struct {
	Count     int
	Status    string
	Escalated bool
}

// ConfirmReport applies one confirmation. At or above the threshold the
// status is (re-)asserted as verified; a record disputed after verification
// returns to verified on the next confirm (last write wins).
func ConfirmReport(count int, status string) ReportOutcome {
	count++
	out := ReportOutcome{Count: count, Status: status}
	if count >= ConfirmThreshold {
		out.Status = models.ReportStatusVerified
		out.Escalated = count == ConfirmThreshold
	}
	return out
}

// DisputeReport flags the report for review. A single dispute suffices and
// the confirmation count is untouched.
func DisputeReport(count int, status string) ReportOutcome {
	return ReportOutcome{Count: count, Status: models.ReportStatusDisputed}
}

// AlertOutcome is the alert state after one verification action.
type AlertOutcome struct {
	Count     int
	Status    string
	Severity  string
	Escalated bool
}

// ConfirmAlert applies one confirmation. Crossing the threshold raises the
// severity to high exactly once; severity is never lowered again.
func ConfirmAlert(count int, status, severity string) AlertOutcome {
	count++
	out := AlertOutcome{Count: count, Status: status, Severity: severity}
	if count >= ConfirmThreshold && severity != models.SeverityHigh {
		out.Severity = models.SeverityHigh
		out.Escalated = true
	}
	return out
}

// DisputeAlert flags the alert. Severity and count are untouched; escalated
// severity in particular survives any number of disputes.
func DisputeAlert(count int, status, severity string) AlertOutcome {
	return AlertOutcome{Count: count, Status: models.AlertStatusDisputed, Severity: severity}
}
