package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *publisherMock) Close() error {
	return m.Called().Error(0)
}

func TestAuditEmitterPublishesEnvelope(t *testing.T) {
	pub := new(publisherMock)
	emitter := NewAuditEmitter(pub, "audit.course-service", "course-service", "test")
	userID := int64(7)

	pub.On("Publish", mock.Anything, "audit.course-service", mock.MatchedBy(func(env AuditEnvelope) bool {
		return env.EventType == "audit_log" &&
			env.Service == "course-service" &&
			env.RequestID == "req-1" &&
			env.UserID != nil && *env.UserID == 7 &&
			env.Payload.Text == "course deleted"
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "INFO", "course deleted", "req-1", &userID)
	pub.AssertExpectations(t)
}

func TestAuditEmitterIgnoresPublishError(t *testing.T) {
	pub := new(publisherMock)
	emitter := NewAuditEmitter(pub, "audit", "course-service", "test")
	pub.On("Publish", mock.Anything, "audit", mock.Anything).Return(assert.AnError).Once()

	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "ERROR", "boom", "", nil)
	})
	pub.AssertExpectations(t)
}

func TestInitTracingWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "", "course-service", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
