package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// AmenityProviderPort - справочник удобств и их привязка к объектам.
type AmenityProviderPort interface {
	// FetchAmenities возвращает все удобства по имени.
	FetchAmenities(ctx context.Context) ([]domain.Amenity, error)
	FetchPropertyAmenities(ctx context.Context, propertyID string) ([]domain.Amenity, error)
}
