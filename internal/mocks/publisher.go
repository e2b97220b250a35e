package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"course-service/internal/observability"
	"course-service/internal/rabbitmq"
	"course-service/internal/telemetry"
)

var (
	_ rabbitmq.Publisher      = (*PublisherMock)(nil)
	_ telemetry.Publisher     = (*PublisherMock)(nil)
	_ observability.Publisher = (*PublisherMock)(nil)
)

// PublisherMock records events instead of sending them to the broker.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	return m.Called().Error(0)
}
