package observability

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Routing keys for real-time events.
const (
	RoutingKeyWSEvents   = "ws_events.chat"
	RoutingKeyChatEvents = "chat_events.messages"
)

type EventEnvelope struct {
	EventType  string      `json:"event_type"`
	EventName  string      `json:"event_name"`
	OccurredAt string      `json:"occurred_at"`
	RequestID  string      `json:"request_id,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
	Payload    interface{} `json:"payload"`
}

// Publisher is satisfied by rabbitmq.Publisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// EventEmitter publishes envelopes and never fails the caller.
type EventEmitter struct {
	publisher Publisher
}

func NewEventEmitter(publisher Publisher) *EventEmitter {
	return &EventEmitter{publisher: publisher}
}

// Emit stamps the envelope and publishes it; errors are counted and logged.
func (e *EventEmitter) Emit(ctx context.Context, routingKey string, envelope EventEnvelope) {
	if e == nil || e.publisher == nil {
		return
	}
	if envelope.OccurredAt == "" {
		envelope.OccurredAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if err := e.publisher.Publish(ctx, routingKey, envelope); err != nil {
		IncAMQPPublishError()
		LoggerFromContext(ctx).Warn("event publish failed",
			zap.String("routing_key", routingKey),
			zap.String("event_name", envelope.EventName),
			zap.Error(err),
		)
	}
}
