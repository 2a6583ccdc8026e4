package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// FavoriteStorePort - хранилище избранного на бэкенде.
type FavoriteStorePort interface {
	List(ctx context.Context, userID string) ([]domain.Favorite, error)
	Create(ctx context.Context, userID, propertyID string) (*domain.Favorite, error)
	Delete(ctx context.Context, favoriteID string) error
}
