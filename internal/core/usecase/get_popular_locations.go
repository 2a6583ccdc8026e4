package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/core/domain"
)

type GetPopularLocationsUseCase struct {
	registry *ViewerRegistry
}

func NewGetPopularLocationsUseCase(registry *ViewerRegistry) *GetPopularLocationsUseCase {
	return &GetPopularLocationsUseCase{registry: registry}
}

func (uc *GetPopularLocationsUseCase) Execute(ctx context.Context, viewer domain.Viewer) ([]domain.PopularLocation, error) {
	ctrl, err := uc.registry.Acquire(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire viewer state: %w", err)
	}
	return ctrl.PopularLocations(), nil
}
