package usecase

import (
	"context"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// publishActivity отправляет событие, если публикатор настроен.
// Ошибка публикации только логируется и не влияет на результат действия.
func publishActivity(ctx context.Context, publisher port.ActivityPublisherPort, event domain.ActivityEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to publish activity event", port.Fields{
			"event_type": event.Type,
			"event_id":   event.ID.String(),
			"error":      err.Error(),
		})
	}
}
