package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type UpdateFiltersUseCase struct {
	registry *ViewerRegistry
}

func NewUpdateFiltersUseCase(registry *ViewerRegistry) *UpdateFiltersUseCase {
	return &UpdateFiltersUseCase{registry: registry}
}

// Execute применяет изменение фильтров. Некорректное значение отклоняется
// до изменения состояния (ErrValidation).
func (uc *UpdateFiltersUseCase) Execute(ctx context.Context, viewer domain.Viewer, patch domain.CriteriaPatch) (domain.ListingSnapshot, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "UpdateFilters",
		"viewer_key": viewer.Key,
	})
	ucLogger.Info("Use case started", nil)

	ctrl, err := uc.registry.Acquire(ctx, viewer)
	if err != nil {
		ucLogger.Error("Failed to acquire viewer state", err, nil)
		return domain.ListingSnapshot{}, fmt.Errorf("failed to acquire viewer state: %w", err)
	}

	criteria, err := ctrl.ApplyCriteria(patch)
	if err != nil {
		ucLogger.Warn("Filter patch rejected", port.Fields{"error": err.Error()})
		return domain.ListingSnapshot{}, err
	}

	snap := ctrl.Snapshot()
	ucLogger.Info("Use case finished successfully", port.Fields{
		"criteria":  criteria.Form(),
		"view_size": len(snap.View),
	})
	return snap, nil
}

type ClearFiltersUseCase struct {
	registry *ViewerRegistry
}

func NewClearFiltersUseCase(registry *ViewerRegistry) *ClearFiltersUseCase {
	return &ClearFiltersUseCase{registry: registry}
}

// Execute сбрасывает фильтры к значениям по умолчанию.
func (uc *ClearFiltersUseCase) Execute(ctx context.Context, viewer domain.Viewer) (domain.ListingSnapshot, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "ClearFilters",
		"viewer_key": viewer.Key,
	})

	ctrl, err := uc.registry.Acquire(ctx, viewer)
	if err != nil {
		ucLogger.Error("Failed to acquire viewer state", err, nil)
		return domain.ListingSnapshot{}, fmt.Errorf("failed to acquire viewer state: %w", err)
	}

	ctrl.ClearCriteria()
	ucLogger.Info("Filters cleared", nil)
	return ctrl.Snapshot(), nil
}
