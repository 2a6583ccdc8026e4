package port

import (
	"context"
	"listing-service/internal/core/domain"
)

// CatalogProviderPort - источник каталога объектов (демо-данные или живой бэкенд).
type CatalogProviderPort interface {
	FetchProperties(ctx context.Context, query domain.CatalogQuery) ([]domain.Property, error)
	// FetchProperty возвращает объект по id. Отсутствующий объект - ошибка с domain.ErrPropertyNotFound.
	FetchProperty(ctx context.Context, id string) (*domain.Property, error)
}
