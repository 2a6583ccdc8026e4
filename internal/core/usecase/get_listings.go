package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type GetListingsUseCase struct {
	registry *ViewerRegistry
}

func NewGetListingsUseCase(registry *ViewerRegistry) *GetListingsUseCase {
	return &GetListingsUseCase{registry: registry}
}

// Execute возвращает полное состояние страницы посетителя.
func (uc *GetListingsUseCase) Execute(ctx context.Context, viewer domain.Viewer) (domain.ListingSnapshot, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "GetListings",
		"viewer_key": viewer.Key,
	})
	ucLogger.Debug("Use case started", nil)

	ctrl, err := uc.registry.Acquire(ctx, viewer)
	if err != nil {
		ucLogger.Error("Failed to acquire viewer state", err, nil)
		return domain.ListingSnapshot{}, fmt.Errorf("failed to acquire viewer state: %w", err)
	}

	snap := ctrl.Snapshot()
	ucLogger.Debug("Use case finished successfully", port.Fields{
		"view_size": len(snap.View),
		"total":     snap.TotalProperties,
	})
	return snap, nil
}

type GetPropertiesUseCase struct {
	registry *ViewerRegistry
}

func NewGetPropertiesUseCase(registry *ViewerRegistry) *GetPropertiesUseCase {
	return &GetPropertiesUseCase{registry: registry}
}

// Execute возвращает только отфильтрованный список объектов.
func (uc *GetPropertiesUseCase) Execute(ctx context.Context, viewer domain.Viewer) ([]domain.Property, error) {
	ctrl, err := uc.registry.Acquire(ctx, viewer)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to acquire viewer state", err, port.Fields{
			"use_case":   "GetProperties",
			"viewer_key": viewer.Key,
		})
		return nil, fmt.Errorf("failed to acquire viewer state: %w", err)
	}
	return ctrl.View(), nil
}
