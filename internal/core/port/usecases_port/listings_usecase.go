package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

type GetListingsUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer) (domain.ListingSnapshot, error)
}

type GetPropertiesUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer) ([]domain.Property, error)
}

type UpdateFiltersUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer, patch domain.CriteriaPatch) (domain.ListingSnapshot, error)
}

type ClearFiltersUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer) (domain.ListingSnapshot, error)
}

type ReloadCatalogUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer) (domain.ListingSnapshot, error)
}

type GetPropertyDetailsUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer, propertyID string) (*domain.PropertyDetails, error)
}

type GetAmenitiesUseCasePort interface {
	Execute(ctx context.Context) ([]domain.Amenity, error)
}
