package rabbitmq

import (
	"time"

	"github.com/apex/log"

	"safepulse/metrics"
)

// Routing keys for published safety events.
const (
	EventReportCreated         = "report.created"
	EventReportVerified        = "report.verified"
	EventReportImmediateAction = "report.immediate_action"
	EventAlertCreated          = "alert.created"
	EventAlertEscalated        = "alert.escalated"
	EventAlertResolved         = "alert.resolved"
	EventJourneyEmergency      = "journey.emergency"
	EventSosSent               = "sos.sent"
)

// Event is the envelope published for every routing key.
type Event struct {
	Kind      string      `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EventBus fans safety events out to RabbitMQ. A bus without a broker
// drops events, which keeps the broker optional.
type EventBus struct {
	publisher *Publisher
}

// NewEventBus connects to the broker. An empty URL or a failed connect
// yields a disabled bus.
func NewEventBus(amqpURL, exchange string) *EventBus {
	if amqpURL == "" {
		log.Info("AMQP_URL is not set, event publishing is disabled")
		return &EventBus{}
	}

	publisher, err := NewPublisher(amqpURL, exchange)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to RabbitMQ, event publishing is disabled")
		return &EventBus{}
	}

	log.Infof("Publishing safety events to exchange %s", exchange)
	return &EventBus{publisher: publisher}
}

// Emit publishes one event under its kind as the routing key. Failures are
// logged and counted, never returned; event delivery must not fail the
// operation that produced it.
func (b *EventBus) Emit(kind string, payload interface{}) {
	if b == nil || b.publisher == nil {
		return
	}

	event := Event{
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := b.publisher.Publish(kind, event); err != nil {
		metrics.EventPublishErrorTotal.Inc()
		log.WithError(err).Warnf("Failed to publish %s event", kind)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(kind).Inc()
}

// Connected reports whether the underlying publisher has an open channel.
// A disabled bus reports false.
func (b *EventBus) Connected() bool {
	return b != nil && b.publisher != nil && b.publisher.IsConnected()
}

// Close shuts the broker connection down.
func (b *EventBus) Close() {
	if b == nil || b.publisher == nil {
		return
	}
	if err := b.publisher.Close(); err != nil {
		log.WithError(err).Warn("Failed to close event publisher")
	}
}
