package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"time"
)

const searchHistoryWarning = "Search history could not be saved"

type SearchPropertiesUseCase struct {
	registry  *ViewerRegistry
	catalog   port.CatalogProviderPort
	history   port.SearchHistoryStorePort
	gate      *ActionGate
	publisher port.ActivityPublisherPort
	timeout   time.Duration
	pageSize  int
}

func NewSearchPropertiesUseCase(
	registry *ViewerRegistry,
	catalog port.CatalogProviderPort,
	history port.SearchHistoryStorePort,
	gate *ActionGate,
	publisher port.ActivityPublisherPort,
	timeout time.Duration,
	pageSize int,
) *SearchPropertiesUseCase {
	if pageSize <= 0 {
		pageSize = DefaultCatalogPageSize
	}
	return &SearchPropertiesUseCase{
		registry:  registry,
		catalog:   catalog,
		history:   history,
		gate:      gate,
		publisher: publisher,
		timeout:   timeout,
		pageSize:  pageSize,
	}
}

// Execute проверяет параметры, сохраняет поиск в историю (только для вошедшего
// пользователя, ошибка сохранения не мешает поиску), загружает объекты по локации
// и применяет критерии к состоянию посетителя.
func (uc *SearchPropertiesUseCase) Execute(ctx context.Context, viewer domain.Viewer, params domain.SearchParams) (*domain.SearchResult, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "SearchProperties",
		"viewer_key": viewer.Key,
	})
	ctx = contextkeys.ContextWithLogger(ctx, ucLogger)

	params = params.Normalize()
	if err := params.Validate(); err != nil {
		ucLogger.Warn("Search params rejected", port.Fields{"error": err.Error()})
		return nil, err
	}
	criteria, err := params.ToCriteria()
	if err != nil {
		return nil, err
	}

	ucLogger.Info("Use case started", port.Fields{"location": params.Location})

	result := &domain.SearchResult{Params: params, Criteria: criteria}

	if uc.gate.Authorize(viewer.Session).Allowed {
		uc.saveHistory(ctx, viewer.Session.UserID(), params, result)
	}

	ctrl, err := uc.registry.Acquire(ctx, viewer)
	if err != nil {
		ucLogger.Error("Failed to acquire viewer state", err, nil)
		return nil, fmt.Errorf("failed to acquire viewer state: %w", err)
	}

	fetchCtx, cancel := ctx, context.CancelFunc(func() {})
	if uc.timeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, uc.timeout)
	}
	defer cancel()

	props, err := uc.catalog.FetchProperties(fetchCtx, domain.CatalogQuery{
		Criteria: &criteria,
		Location: params.Location,
		Limit:    uc.pageSize,
	})
	if err != nil {
		ucLogger.Error("Catalog search failed", err, nil)
		return nil, fmt.Errorf("%w: search failed: %w", domain.ErrTransport, err)
	}

	result.View = ctrl.ReplaceSearch(props, criteria)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"found":     len(props),
		"view_size": len(result.View),
	})
	return result, nil
}

func (uc *SearchPropertiesUseCase) saveHistory(ctx context.Context, userID string, params domain.SearchParams, result *domain.SearchResult) {
	logger := contextkeys.LoggerFromContext(ctx)
	if uc.history == nil {
		return
	}

	record, err := uc.history.Save(ctx, userID, params)
	if err != nil {
		logger.Warn("Failed to save search history", port.Fields{"error": err.Error()})
		result.Warning = searchHistoryWarning
		return
	}
	result.Saved = record

	event := domain.NewActivityEvent(domain.ActivitySearchSaved, userID)
	event.Search = &params
	publishActivity(ctx, uc.publisher, event)
}
