package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type ReloadCatalogUseCase struct {
	registry     *ViewerRegistry
	orchestrator *LoadOrchestrator
}

func NewReloadCatalogUseCase(registry *ViewerRegistry, orchestrator *LoadOrchestrator) *ReloadCatalogUseCase {
	return &ReloadCatalogUseCase{registry: registry, orchestrator: orchestrator}
}

// Execute повторяет загрузку каталога. Снимок возвращается и при ошибке,
// чтобы клиент увидел выставленное сообщение.
func (uc *ReloadCatalogUseCase) Execute(ctx context.Context, viewer domain.Viewer) (domain.ListingSnapshot, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "ReloadCatalog",
		"viewer_key": viewer.Key,
	})
	ucLogger.Info("Use case started", nil)

	ctrl, err := uc.registry.Acquire(ctx, viewer)
	if err != nil {
		ucLogger.Error("Failed to acquire viewer state", err, nil)
		return domain.ListingSnapshot{}, fmt.Errorf("failed to acquire viewer state: %w", err)
	}

	if err := uc.orchestrator.ReloadCatalog(contextkeys.ContextWithLogger(ctx, ucLogger), ctrl); err != nil {
		return ctrl.Snapshot(), err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return ctrl.Snapshot(), nil
}
