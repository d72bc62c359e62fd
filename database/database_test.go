package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"

	"safepulse/models"
)

var (
	db   *sql.DB
	mock sqlmock.Sqlmock
	svc  *Service
)

func setUp() {
	db, mock, _ = sqlmock.New()
	svc = NewService(db)
}

func tearDown() {
	db.Close()
}

var it = beforeeach.Create(setUp, tearDown)

var reportTestColumns = []string{
	"id", "reporter_id", "raw_text", "anonymized_text", "latitude", "longitude",
	"severity", "categories", "status", "verification_count", "requires_immediate_action",
	"created_at", "updated_at",
}

var alertTestColumns = []string{
	"id", "reporter_id", "alert_type", "description", "latitude", "longitude",
	"severity", "status", "verification_count", "resolution_details",
	"created_at", "updated_at",
}

var journeyTestColumns = []string{
	"id", "user_id", "start_latitude", "start_longitude", "dest_latitude", "dest_longitude",
	"travel_mode", "status", "route_safety", "safety_recommendations",
	"start_time", "end_time",
}

func TestVerifyReport(t *testing.T) {
	it(func() {
		testCases := []struct {
			name   string
			kind   string
			count  int
			status string

			updateExpected  bool
			expectCount     int
			expectStatus    string
			expectEscalated bool

			errorExpected bool
		}{
			{
				name:   "Confirm below threshold",
				kind:   models.VerificationConfirm,
				count:  1,
				status: models.ReportStatusSubmitted,

				updateExpected: true,
				expectCount:    2,
				expectStatus:   models.ReportStatusSubmitted,
			},
			{
				name:   "Confirm crossing threshold",
				kind:   models.VerificationConfirm,
				count:  2,
				status: models.ReportStatusSubmitted,

				updateExpected:  true,
				expectCount:     3,
				expectStatus:    models.ReportStatusVerified,
				expectEscalated: true,
			},
			{
				name:   "Confirm past threshold stays verified",
				kind:   models.VerificationConfirm,
				count:  3,
				status: models.ReportStatusVerified,

				updateExpected: true,
				expectCount:    4,
				expectStatus:   models.ReportStatusVerified,
			},
			{
				name:   "Dispute keeps count",
				kind:   models.VerificationDispute,
				count:  2,
				status: models.ReportStatusSubmitted,

				updateExpected: true,
				expectCount:    2,
				expectStatus:   models.ReportStatusDisputed,
			},
			{
				name:   "Unknown kind",
				kind:   "maybe",
				count:  0,
				status: models.ReportStatusSubmitted,

				errorExpected: true,
			},
		}

		now := time.Now()
		for _, testCase := range testCases {
			rows := sqlmock.NewRows(reportTestColumns).
				AddRow("r100", "u1", "raw text", "anonymized text", 22.5726, 88.3639,
					models.SeverityMedium, []byte(`["harassment"]`), testCase.status,
					testCase.count, false, now, now)
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT (.+) FROM reports WHERE id = (.+) FOR UPDATE").
				WithArgs("r100").
				WillReturnRows(rows)
			if testCase.updateExpected {
				mock.ExpectExec("UPDATE reports SET verification_count = (.+), status = (.+) WHERE id = (.+)").
					WithArgs(testCase.expectCount, testCase.expectStatus, "r100").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			report, escalated, err := svc.VerifyReport(context.Background(), "r100", testCase.kind)
			if testCase.errorExpected != (err != nil) {
				t.Errorf("%s, VerifyReport: expected error: %v, got error: %v", testCase.name, testCase.errorExpected, err)
			}
			if testCase.errorExpected {
				if !errors.Is(err, models.ErrValidation) {
					t.Errorf("%s, VerifyReport: expected validation error, got %v", testCase.name, err)
				}
				continue
			}
			if report.VerificationCount != testCase.expectCount || report.Status != testCase.expectStatus {
				t.Errorf("%s, VerifyReport: expected count %d status %s, got count %d status %s",
					testCase.name, testCase.expectCount, testCase.expectStatus, report.VerificationCount, report.Status)
			}
			if escalated != testCase.expectEscalated {
				t.Errorf("%s, VerifyReport: expected escalated %v, got %v", testCase.name, testCase.expectEscalated, escalated)
			}
		}
	})
}

func TestGetReportNotFound(t *testing.T) {
	it(func() {
		mock.ExpectQuery("SELECT (.+) FROM reports WHERE id = (.+)").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(reportTestColumns))

		_, err := svc.GetReport(context.Background(), "missing")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("GetReport: expected not found error, got %v", err)
		}
	})
}

func TestVerifyAlert(t *testing.T) {
	it(func() {
		testCases := []struct {
			name     string
			kind     string
			count    int
			severity string

			expectCount     int
			expectStatus    string
			expectSeverity  string
			expectEscalated bool
		}{
			{
				name:     "Confirm below threshold",
				kind:     models.VerificationConfirm,
				count:    1,
				severity: models.SeverityMedium,

				expectCount:    2,
				expectStatus:   models.AlertStatusActive,
				expectSeverity: models.SeverityMedium,
			},
			{
				name:     "Confirm crossing threshold raises severity",
				kind:     models.VerificationConfirm,
				count:    2,
				severity: models.SeverityMedium,

				expectCount:     3,
				expectStatus:    models.AlertStatusActive,
				expectSeverity:  models.SeverityHigh,
				expectEscalated: true,
			},
			{
				name:     "Confirm crossing threshold on high severity",
				kind:     models.VerificationConfirm,
				count:    2,
				severity: models.SeverityHigh,

				expectCount:    3,
				expectStatus:   models.AlertStatusActive,
				expectSeverity: models.SeverityHigh,
			},
			{
				name:     "Dispute keeps severity",
				kind:     models.VerificationDispute,
				count:    4,
				severity: models.SeverityHigh,

				expectCount:    4,
				expectStatus:   models.AlertStatusDisputed,
				expectSeverity: models.SeverityHigh,
			},
		}

		now := time.Now()
		for _, testCase := range testCases {
			rows := sqlmock.NewRows(alertTestColumns).
				AddRow("a200", "u1", "harassment", "describes the incident", 22.5726, 88.3639,
					testCase.severity, models.AlertStatusActive, testCase.count, "", now, now)
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT (.+) FROM alerts WHERE id = (.+) FOR UPDATE").
				WithArgs("a200").
				WillReturnRows(rows)
			mock.ExpectExec("UPDATE alerts SET verification_count = (.+), status = (.+), severity = (.+) WHERE id = (.+)").
				WithArgs(testCase.expectCount, testCase.expectStatus, testCase.expectSeverity, "a200").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			alert, escalated, err := svc.VerifyAlert(context.Background(), "a200", testCase.kind)
			if err != nil {
				t.Errorf("%s, VerifyAlert: unexpected error: %v", testCase.name, err)
				continue
			}
			if alert.VerificationCount != testCase.expectCount || alert.Status != testCase.expectStatus ||
				alert.Severity != testCase.expectSeverity {
				t.Errorf("%s, VerifyAlert: expected count %d status %s severity %s, got count %d status %s severity %s",
					testCase.name, testCase.expectCount, testCase.expectStatus, testCase.expectSeverity,
					alert.VerificationCount, alert.Status, alert.Severity)
			}
			if escalated != testCase.expectEscalated {
				t.Errorf("%s, VerifyAlert: expected escalated %v, got %v", testCase.name, testCase.expectEscalated, escalated)
			}
		}
	})
}

func TestResolveAlert(t *testing.T) {
	it(func() {
		testCases := []struct {
			name    string
			status  string
			details string

			updateExpected bool
			expectResolved bool
			expectDetails  string
		}{
			{
				name:    "Resolve active alert",
				status:  models.AlertStatusActive,
				details: "patrol dispatched",

				updateExpected: true,
				expectResolved: true,
				expectDetails:  "patrol dispatched",
			},
			{
				name:    "Resolve already resolved alert",
				status:  models.AlertStatusResolved,
				details: "second resolution",

				updateExpected: false,
				expectResolved: false,
				expectDetails:  "",
			},
		}

		now := time.Now()
		for _, testCase := range testCases {
			rows := sqlmock.NewRows(alertTestColumns).
				AddRow("a201", "u1", "stalking", "describes the incident", 22.5726, 88.3639,
					models.SeverityMedium, testCase.status, 1, "", now, now)
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT (.+) FROM alerts WHERE id = (.+) FOR UPDATE").
				WithArgs("a201").
				WillReturnRows(rows)
			if testCase.updateExpected {
				mock.ExpectExec("UPDATE alerts SET status = (.+), resolution_details = (.+) WHERE id = (.+)").
					WithArgs(models.AlertStatusResolved, testCase.details, "a201").
					WillReturnResult(sqlmock.NewResult(0, 1))
			}
			mock.ExpectCommit()

			alert, resolved, err := svc.ResolveAlert(context.Background(), "a201", testCase.details)
			if err != nil {
				t.Errorf("%s, ResolveAlert: unexpected error: %v", testCase.name, err)
				continue
			}
			if resolved != testCase.expectResolved {
				t.Errorf("%s, ResolveAlert: expected resolved %v, got %v", testCase.name, testCase.expectResolved, resolved)
			}
			if alert.Status != models.AlertStatusResolved {
				t.Errorf("%s, ResolveAlert: expected status resolved, got %s", testCase.name, alert.Status)
			}
			if alert.ResolutionDetails != testCase.expectDetails {
				t.Errorf("%s, ResolveAlert: expected details %q, got %q", testCase.name, testCase.expectDetails, alert.ResolutionDetails)
			}
		}
	})
}

func TestTransitionJourney(t *testing.T) {
	it(func() {
		testCases := []struct {
			name   string
			status string
			target string

			updateExpected   bool
			expectTransition bool
			expectStatus     string
		}{
			{
				name:   "Active journey completes",
				status: models.JourneyStatusActive,
				target: models.JourneyStatusCompleted,

				updateExpected:   true,
				expectTransition: true,
				expectStatus:     models.JourneyStatusCompleted,
			},
			{
				name:   "Active journey escalates",
				status: models.JourneyStatusActive,
				target: models.JourneyStatusEmergency,

				updateExpected:   true,
				expectTransition: true,
				expectStatus:     models.JourneyStatusEmergency,
			},
			{
				name:   "Completed journey is untouched",
				status: models.JourneyStatusCompleted,
				target: models.JourneyStatusEmergency,

				expectStatus: models.JourneyStatusCompleted,
			},
		}

		now := time.Now()
		routeSafety := []byte(`{"overall_risk":"medium","risk_areas_on_route":[],"time_factor":"day","alternative_routes_available":false}`)
		recommendations := []byte(`["Keep your phone charged and accessible"]`)
		for _, testCase := range testCases {
			rows := sqlmock.NewRows(journeyTestColumns).
				AddRow("j300", "u1", 0.0, 0.0, 0.0, 0.001, "walking", testCase.status,
					routeSafety, recommendations, now, nil)
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT (.+) FROM journeys WHERE id = (.+) FOR UPDATE").
				WithArgs("j300").
				WillReturnRows(rows)
			if testCase.updateExpected {
				mock.ExpectExec("UPDATE journeys SET status = (.+), end_time = (.+) WHERE id = (.+)").
					WithArgs(testCase.target, sqlmock.AnyArg(), "j300").
					WillReturnResult(sqlmock.NewResult(0, 1))
			}
			mock.ExpectCommit()

			journey, transitioned, err := svc.TransitionJourney(context.Background(), "j300", testCase.target)
			if err != nil {
				t.Errorf("%s, TransitionJourney: unexpected error: %v", testCase.name, err)
				continue
			}
			if transitioned != testCase.expectTransition {
				t.Errorf("%s, TransitionJourney: expected transitioned %v, got %v", testCase.name, testCase.expectTransition, transitioned)
			}
			if journey.Status != testCase.expectStatus {
				t.Errorf("%s, TransitionJourney: expected status %s, got %s", testCase.name, testCase.expectStatus, journey.Status)
			}
			if testCase.expectTransition && journey.EndTime == nil {
				t.Errorf("%s, TransitionJourney: expected end time to be set", testCase.name)
			}
		}
	})
}

func TestTransitionJourneyNotFound(t *testing.T) {
	it(func() {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM journeys WHERE id = (.+) FOR UPDATE").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(journeyTestColumns))
		mock.ExpectRollback()

		_, _, err := svc.TransitionJourney(context.Background(), "missing", models.JourneyStatusCompleted)
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("TransitionJourney: expected not found error, got %v", err)
		}
	})
}

func TestDeleteContact(t *testing.T) {
	it(func() {
		testCases := []struct {
			name         string
			rowsAffected int64

			notFoundExpected bool
		}{
			{
				name:         "Delete owned contact",
				rowsAffected: 1,
			},
			{
				name:         "Delete unknown contact",
				rowsAffected: 0,

				notFoundExpected: true,
			},
		}

		for _, testCase := range testCases {
			mock.ExpectExec("DELETE FROM emergency_contacts WHERE id = (.+) AND user_id = (.+)").
				WithArgs(int64(42), "u1").
				WillReturnResult(sqlmock.NewResult(0, testCase.rowsAffected))

			err := svc.DeleteContact(context.Background(), 42, "u1")
			if testCase.notFoundExpected != errors.Is(err, models.ErrNotFound) {
				t.Errorf("%s, DeleteContact: expected not found: %v, got error: %v", testCase.name, testCase.notFoundExpected, err)
			}
		}
	})
}

func TestAddContact(t *testing.T) {
	it(func() {
		mock.ExpectExec("INSERT INTO emergency_contacts \\(user_id, name, phone, relationship\\) VALUES \\((.+), (.+), (.+), (.+)\\)").
			WithArgs("u1", "Asha", "+919876543210", "sister").
			WillReturnResult(sqlmock.NewResult(7, 1))

		contact := &models.EmergencyContact{
			UserId:       "u1",
			Name:         "Asha",
			Phone:        "+919876543210",
			Relationship: "sister",
		}
		if err := svc.AddContact(context.Background(), contact); err != nil {
			t.Errorf("AddContact: unexpected error: %v", err)
		}
		if contact.Id != 7 {
			t.Errorf("AddContact: expected generated id 7, got %d", contact.Id)
		}
	})
}
