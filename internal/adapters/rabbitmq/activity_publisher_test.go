package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducer struct{ mock.Mock }

func (m *MockProducer) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	return m.Called(ctx, routingKey, msg).Error(0)
}

type recordingLogger struct {
	entries []port.Fields
}

func (l *recordingLogger) Info(msg string, fields port.Fields)  { l.entries = append(l.entries, fields) }
func (l *recordingLogger) Warn(msg string, fields port.Fields)  { l.entries = append(l.entries, fields) }
func (l *recordingLogger) Debug(msg string, fields port.Fields) { l.entries = append(l.entries, fields) }
func (l *recordingLogger) Error(msg string, err error, fields port.Fields) {
	l.entries = append(l.entries, fields)
}
func (l *recordingLogger) WithFields(fields port.Fields) port.LoggerPort { return l }

func TestBuildActivityMessage_Favorite(t *testing.T) {
	event := domain.NewActivityEvent(domain.ActivityFavoriteAdded, "u1")
	event.PropertyID = "p1"
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")

	msg, err := buildActivityMessage(ctx, event)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "trace-1", msg.Headers["x-trace-id"])
	assert.Equal(t, constants.ActivityEventSchema, msg.Headers["x-event-type"])
	assert.Equal(t, constants.ActivityEventVersion, msg.Headers["x-event-version"])

	var dto ActivityEventDTO
	require.NoError(t, json.Unmarshal(msg.Body, &dto))
	assert.Equal(t, event.ID, dto.EventID)
	assert.Equal(t, "favorite.added", dto.EventType)
	assert.Equal(t, "p1", dto.PropertyID)
	assert.Nil(t, dto.Search)
}

func TestBuildActivityMessage_Search(t *testing.T) {
	event := domain.NewActivityEvent(domain.ActivitySearchSaved, "u1")
	event.Search = &domain.SearchParams{Location: "Seattle", PropertyType: "house", PriceRange: "any", Bedrooms: "2", Bathrooms: "any"}

	msg, err := buildActivityMessage(context.Background(), event)
	require.NoError(t, err)
	_, hasTrace := msg.Headers["x-trace-id"]
	assert.False(t, hasTrace)

	var dto ActivityEventDTO
	require.NoError(t, json.Unmarshal(msg.Body, &dto))
	require.NotNil(t, dto.Search)
	assert.Equal(t, "Seattle", dto.Search.Location)
}

func TestBuildActivityMessage_ContractViolation(t *testing.T) {
	// событие избранного без объекта не проходит схему
	event := domain.NewActivityEvent(domain.ActivityFavoriteRemoved, "u1")
	_, err := buildActivityMessage(context.Background(), event)
	assert.Error(t, err)

	search := domain.NewActivityEvent(domain.ActivitySearchSaved, "u1")
	_, err = buildActivityMessage(context.Background(), search)
	assert.Error(t, err)
}

func TestActivityPublisherAdapter_Publish(t *testing.T) {
	producer := new(MockProducer)
	adapter, err := NewActivityPublisherAdapter(producer)
	require.NoError(t, err)

	event := domain.NewActivityEvent(domain.ActivityFavoriteRemoved, "u1")
	event.PropertyID = "p1"

	producer.On("Publish", mock.Anything, constants.RoutingKeyFavoriteRemoved, mock.AnythingOfType("amqp091.Publishing")).
		Return(nil).Once()
	require.NoError(t, adapter.Publish(context.Background(), event))

	producer.On("Publish", mock.Anything, constants.RoutingKeyFavoriteRemoved, mock.Anything).
		Return(errors.New("channel closed")).Once()
	assert.Error(t, adapter.Publish(context.Background(), event))

	producer.AssertExpectations(t)
}

func TestActivityPublisherAdapter_UnknownType(t *testing.T) {
	producer := new(MockProducer)
	adapter, err := NewActivityPublisherAdapter(producer)
	require.NoError(t, err)

	event := domain.NewActivityEvent(domain.ActivityType("unknown"), "u1")
	assert.Error(t, adapter.Publish(context.Background(), event))
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewActivityPublisherAdapter_NilProducer(t *testing.T) {
	_, err := NewActivityPublisherAdapter(nil)
	assert.Error(t, err)
}

func TestPkgLoggerBridge_ToFields(t *testing.T) {
	logger := &recordingLogger{}
	bridge := NewPkgLoggerBridge(logger)

	bridge.Info("connected", "url", "amqp://localhost", 42, "skipped", "dangling")
	require.Len(t, logger.entries, 1)
	assert.Equal(t, port.Fields{"url": "amqp://localhost"}, logger.entries[0])
}
