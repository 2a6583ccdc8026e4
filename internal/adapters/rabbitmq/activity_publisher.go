package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/contracts"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// messagePublisher - то, что адаптеру нужно от rabbitmq_producer.Publisher.
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ActivityPublisherAdapter отправляет события активности в обменник.
type ActivityPublisherAdapter struct {
	producer messagePublisher
}

func NewActivityPublisherAdapter(producer messagePublisher) (*ActivityPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &ActivityPublisherAdapter{producer: producer}, nil
}

func (a *ActivityPublisherAdapter) Publish(ctx context.Context, event domain.ActivityEvent) error {
	routingKey, err := routingKeyFor(event.Type)
	if err != nil {
		return err
	}

	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ActivityPublisherAdapter",
		"routing_key": routingKey,
		"event_id":    event.ID.String(),
	})

	msg, err := buildActivityMessage(ctx, event)
	if err != nil {
		adapterLogger.Error("Failed to build activity message", err, nil)
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish activity event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish event %s: %w", event.ID, err)
	}

	adapterLogger.Debug("Activity event published", nil)
	return nil
}

func routingKeyFor(t domain.ActivityType) (string, error) {
	switch t {
	case domain.ActivityFavoriteAdded:
		return constants.RoutingKeyFavoriteAdded, nil
	case domain.ActivityFavoriteRemoved:
		return constants.RoutingKeyFavoriteRemoved, nil
	case domain.ActivitySearchSaved:
		return constants.RoutingKeySearchSaved, nil
	default:
		return "", fmt.Errorf("rabbitmq adapter: unknown activity type %q", t)
	}
}

// buildActivityMessage собирает сообщение и проверяет тело по схеме до отправки.
func buildActivityMessage(ctx context.Context, event domain.ActivityEvent) (amqp.Publishing, error) {
	dto := ActivityEventDTO{
		EventID:    event.ID,
		EventType:  string(event.Type),
		UserID:     event.UserID,
		PropertyID: event.PropertyID,
		OccurredAt: event.OccurredAt.UTC(),
	}
	if event.Search != nil {
		dto.Search = &SearchDTO{
			Location:     event.Search.Location,
			PropertyType: event.Search.PropertyType,
			PriceRange:   event.Search.PriceRange,
			Bedrooms:     event.Search.Bedrooms,
			Bathrooms:    event.Search.Bathrooms,
		}
	}

	body, err := json.Marshal(dto)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq adapter: failed to marshal event: %w", err)
	}
	if err := contracts.ValidateEvent(constants.ActivityEventSchema, constants.ActivityEventVersion, body); err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq adapter: event does not match contract: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    event.ID.String(),
		Headers: amqp.Table{
			"x-event-type":    constants.ActivityEventSchema,
			"x-event-version": constants.ActivityEventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}
	return msg, nil
}
