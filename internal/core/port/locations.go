package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// LocationProviderPort отдает популярные локации для подсказок поиска.
type LocationProviderPort interface {
	FetchPopular(ctx context.Context) ([]domain.PopularLocation, error)
}
