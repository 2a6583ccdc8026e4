package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// SearchHistoryStorePort - история поиска пользователя.
type SearchHistoryStorePort interface {
	Save(ctx context.Context, userID string, params domain.SearchParams) (*domain.SearchRecord, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.SearchRecord, error)
}
