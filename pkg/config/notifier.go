package config

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// EventNotifier publishes analytics events and operational alerts to their
// queues. Both channels are fire-and-forget: a publish failure is logged
// and dropped, never returned.
type EventNotifier struct {
	publisher *Publisher
}

// NewEventNotifier wraps a publisher. publisher may be nil, in which case
// every emit is a no-op (RabbitMQ not configured).
func NewEventNotifier(publisher *Publisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

// AnalyticsEvent emits a product analytics event.
func (n *EventNotifier) AnalyticsEvent(event string, payload map[string]any) {
	n.emit(QueueAnalyticsEvents, map[string]any{
		"event":     event,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	})
}

// OpsAlert emits an operational alert.
func (n *EventNotifier) OpsAlert(message string, payload map[string]any) {
	n.emit(QueueOpsAlerts, map[string]any{
		"message":   message,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	})
}

func (n *EventNotifier) emit(queue string, message map[string]any) {
	if n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(queue, message); err != nil {
		log.Warnf("Failed to publish to %s: %v", queue, err)
	}
}
