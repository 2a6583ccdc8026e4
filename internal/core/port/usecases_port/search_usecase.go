package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

type SearchPropertiesUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer, params domain.SearchParams) (*domain.SearchResult, error)
}

type GetRecentSearchesUseCasePort interface {
	Execute(ctx context.Context, session domain.Session, limit int) ([]domain.SearchRecord, error)
}

type GetPopularLocationsUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer) ([]domain.PopularLocation, error)
}
