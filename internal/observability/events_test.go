package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	keys   []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, event any) error {
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, event)
	return p.err
}

func TestEventEmitterStampsEnvelope(t *testing.T) {
	pub := &recordingPublisher{}
	emitter := NewEventEmitter(pub)

	emitter.Emit(context.Background(), RoutingKeyWSEvents, EventEnvelope{EventType: "ws_events", EventName: "ws_connect"})

	require.Len(t, pub.events, 1)
	assert.Equal(t, RoutingKeyWSEvents, pub.keys[0])
	envelope, ok := pub.events[0].(EventEnvelope)
	require.True(t, ok)
	assert.Equal(t, "ws_connect", envelope.EventName)
	assert.NotEmpty(t, envelope.OccurredAt)
}

func TestEventEmitterSwallowsErrors(t *testing.T) {
	pub := &recordingPublisher{err: assert.AnError}
	emitter := NewEventEmitter(pub)

	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), RoutingKeyChatEvents, EventEnvelope{EventName: "message_sent"})
	})
	assert.Len(t, pub.events, 1)
}

func TestNilEventEmitterIsNoop(t *testing.T) {
	var emitter *EventEmitter
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), RoutingKeyWSEvents, EventEnvelope{})
	})
}

func TestLoggerFromContextWithoutRequestID(t *testing.T) {
	assert.Same(t, Logger(), LoggerFromContext(context.Background()))
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.NotNil(t, LoggerFromContext(ctx))
}
