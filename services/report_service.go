package services

import (
	"context"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"safepulse/classifier"
	"safepulse/database"
	"safepulse/email"
	"safepulse/geo"
	"safepulse/metrics"
	"safepulse/models"
	"safepulse/rabbitmq"
)

// fallbackCategory tags reports stored while the classifier is unavailable.
const fallbackCategory = "general_concern"

// ReportService runs the incident report pipeline.
type ReportService struct {
	db         *database.Service
	classifier classifier.Client
	mail       *email.Sender
	events     *rabbitmq.EventBus
}

func NewReportService(db *database.Service, classifierClient classifier.Client, mail *email.Sender, events *rabbitmq.EventBus) *ReportService {
	return &ReportService{db: db, classifier: classifierClient, mail: mail, events: events}
}

// Submit anonymizes and classifies the report text, then persists the
// report. Classifier faults degrade to the fixed fallback classification;
// the report is stored either way.
func (s *ReportService) Submit(ctx context.Context, req *models.SubmitReportRequest) (*models.Report, error) {
	now := time.Now().UTC()

	start := time.Now()
	analysis, err := s.classifier.AnalyzeReport(req.Text, req.Location, now)
	observeClassifier(classifier.TaskAnalyzeReport, start, err)
	if err != nil {
		log.WithError(err).Warn("Report analysis unavailable, storing report with fallback classification")
		analysis = &classifier.ReportAnalysis{
			AnonymizedText:          req.Text,
			Severity:                models.SeverityMedium,
			Categories:              []string{fallbackCategory},
			RequiresImmediateAction: false,
		}
	}

	report := &models.Report{
		Id:                      uuid.New().String(),
		ReporterId:              req.UserId,
		RawText:                 req.Text,
		AnonymizedText:          analysis.AnonymizedText,
		Location:                req.Location,
		Severity:                analysis.Severity,
		Categories:              analysis.Categories,
		Status:                  models.ReportStatusSubmitted,
		RequiresImmediateAction: analysis.RequiresImmediateAction,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.db.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	metrics.ReportsSubmittedTotal.WithLabelValues(report.Severity).Inc()

	s.events.Emit(rabbitmq.EventReportCreated, report)
	if report.RequiresImmediateAction {
		log.WithField("report_id", report.Id).Warn("Report flagged for immediate action, notifying authorities")
		s.events.Emit(rabbitmq.EventReportImmediateAction, report)
	}
	return report, nil
}

// Get returns one report.
func (s *ReportService) Get(ctx context.Context, reportId string) (*models.Report, error) {
	return s.db.GetReport(ctx, reportId)
}

// Verify applies one community verification vote. Crossing the confirm
// threshold notifies the reporter by email, best effort.
func (s *ReportService) Verify(ctx context.Context, reportId, kind string) (*models.Report, bool, error) {
	report, escalated, err := s.db.VerifyReport(ctx, reportId, kind)
	if err != nil {
		return nil, false, err
	}
	metrics.VerificationsTotal.WithLabelValues("report", kind).Inc()

	if escalated {
		metrics.EscalationsTotal.WithLabelValues("report").Inc()
		s.events.Emit(rabbitmq.EventReportVerified, report)
		s.notifyReporter(ctx, report)
	}
	return report, escalated, nil
}

func (s *ReportService) notifyReporter(ctx context.Context, report *models.Report) {
	user, err := s.db.GetUser(ctx, report.ReporterId)
	if err != nil {
		log.WithError(err).Debugf("No reporter profile for report %s, skipping email", report.Id)
		return
	}
	if err := s.mail.SendReportVerified(user.Email, report); err != nil {
		log.WithError(err).Warnf("Failed to email reporter of report %s", report.Id)
	}
}

// CommunitySupport matches volunteers whose expertise overlaps the report
// categories.
func (s *ReportService) CommunitySupport(ctx context.Context, reportId string) ([]models.Volunteer, error) {
	report, err := s.db.GetReport(ctx, reportId)
	if err != nil {
		return nil, err
	}
	volunteers, err := s.db.Volunteers(ctx)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]bool, len(report.Categories))
	for _, category := range report.Categories {
		categories[category] = true
	}

	matched := make([]models.Volunteer, 0)
	for _, volunteer := range volunteers {
		for _, expertise := range volunteer.Expertise {
			if categories[expertise] {
				matched = append(matched, volunteer)
				break
			}
		}
	}
	return matched, nil
}

// ByArea lists sanitized report pins within radiusKm of center, closest
// first.
func (s *ReportService) ByArea(ctx context.Context, center models.GeoPoint, radiusKm float64) ([]models.AreaReport, error) {
	reports, err := s.reportsWithin(ctx, center, radiusKm)
	if err != nil {
		return nil, err
	}

	area := make([]models.AreaReport, 0, len(reports))
	for _, report := range reports {
		area = append(area, models.AreaReport{
			Id:         report.Id,
			Timestamp:  report.CreatedAt,
			Severity:   report.Severity,
			Categories: report.Categories,
			DistanceKm: geo.RoundKm(geo.HaversineKm(center, report.Location)),
		})
	}
	sort.Slice(area, func(i, j int) bool {
		return area[i].DistanceKm < area[j].DistanceKm
	})
	return area, nil
}

// MapReports lists the reports within radiusKm of center with their
// coordinates, for map rendering.
func (s *ReportService) MapReports(ctx context.Context, center models.GeoPoint, radiusKm float64) ([]models.Report, error) {
	return s.reportsWithin(ctx, center, radiusKm)
}

// reportsWithin applies the bounding box prefilter in SQL and the exact
// Haversine inclusion test here.
func (s *ReportService) reportsWithin(ctx context.Context, center models.GeoPoint, radiusKm float64) ([]models.Report, error) {
	candidates, err := s.db.ReportsInBox(ctx, geo.BoundingBoxAround(center, radiusKm))
	if err != nil {
		return nil, err
	}

	reports := make([]models.Report, 0, len(candidates))
	for _, report := range candidates {
		if geo.HaversineKm(center, report.Location) <= radiusKm {
			reports = append(reports, report)
		}
	}
	return reports, nil
}
