package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ReportsSubmittedTotal counts accepted incident reports by severity.
	ReportsSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "reports_submitted_total",
		Help:      "Total number of incident reports accepted, labeled by severity.",
	}, []string{"severity"})

	// AlertsCreatedTotal counts emergency alerts by severity.
	AlertsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "alerts_created_total",
		Help:      "Total number of emergency alerts created, labeled by severity.",
	}, []string{"severity"})

	// VerificationsTotal counts community verification votes.
	VerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "verifications_total",
		Help:      "Total number of verification votes, labeled by target and kind.",
	}, []string{"target", "kind"})

	// EscalationsTotal counts consensus threshold crossings.
	EscalationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "escalations_total",
		Help:      "Total number of consensus escalations (reports verified, alerts raised to high), labeled by target.",
	}, []string{"target"})

	// SosNotificationsTotal counts per-contact SOS delivery outcomes.
	SosNotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "sos_notifications_total",
		Help:      "Total number of SOS SMS notifications attempted, labeled by delivery status.",
	}, []string{"status"})

	// JourneysActive is the number of journeys currently in the active state.
	JourneysActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "journeys_active",
		Help:      "Number of journeys currently being tracked.",
	})

	// JourneysEndedTotal counts journeys by terminal status.
	JourneysEndedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "journeys_ended_total",
		Help:      "Total number of journeys that reached a terminal state, labeled by status.",
	}, []string{"status"})

	// ClassifierRequestsTotal counts classifier calls by task and outcome.
	ClassifierRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "classifier_requests_total",
		Help:      "Total number of classifier calls, labeled by task and result (ok or fallback).",
	}, []string{"task", "result"})

	// ClassifierDurationSeconds is the classifier round trip time per task.
	ClassifierDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "classifier_duration_seconds",
		Help:      "Round trip time of classifier calls, labeled by task.",
		// Keep buckets fairly coarse to avoid high-cardinality time series.
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"task"})

	// EventsPublishedTotal counts delivered event bus publishes by kind.
	EventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "events_published_total",
		Help:      "Total number of safety events published, labeled by kind.",
	}, []string{"kind"})

	// EventPublishErrorTotal counts failed event bus publishes.
	EventPublishErrorTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "safepulse",
		Subsystem: "api",
		Name:      "event_publish_error_total",
		Help:      "Total number of event bus publish errors.",
	})
)

// Register registers safepulse metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReportsSubmittedTotal,
			AlertsCreatedTotal,
			VerificationsTotal,
			EscalationsTotal,
			SosNotificationsTotal,
			JourneysActive,
			JourneysEndedTotal,
			ClassifierRequestsTotal,
			ClassifierDurationSeconds,
			EventsPublishedTotal,
			EventPublishErrorTotal,
		)
	})
}
