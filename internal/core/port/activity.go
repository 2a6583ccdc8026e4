package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// ActivityPublisherPort публикует события активности пользователей.
type ActivityPublisherPort interface {
	Publish(ctx context.Context, event domain.ActivityEvent) error
}
