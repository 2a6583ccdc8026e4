package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type GetFavoritesUseCase struct {
	registry *ViewerRegistry
}

func NewGetFavoritesUseCase(registry *ViewerRegistry) *GetFavoritesUseCase {
	return &GetFavoritesUseCase{registry: registry}
}

// Execute возвращает id избранных объектов. У анонимного посетителя список пуст.
func (uc *GetFavoritesUseCase) Execute(ctx context.Context, viewer domain.Viewer) ([]string, error) {
	ctrl, err := uc.registry.Acquire(ctx, viewer)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to acquire viewer state", err, port.Fields{
			"use_case":   "GetFavorites",
			"viewer_key": viewer.Key,
		})
		return nil, fmt.Errorf("failed to acquire viewer state: %w", err)
	}
	return ctrl.Favorites().IDs(), nil
}
