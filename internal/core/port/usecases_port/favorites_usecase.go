package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

type ToggleFavoriteUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer, propertyID string) (domain.ToggleOutcome, error)
}

type GetFavoritesUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer) ([]string, error)
}
