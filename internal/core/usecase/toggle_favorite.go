package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"strings"
)

type ToggleFavoriteUseCase struct {
	registry *ViewerRegistry
	gate     *ActionGate
}

func NewToggleFavoriteUseCase(registry *ViewerRegistry, gate *ActionGate) *ToggleFavoriteUseCase {
	return &ToggleFavoriteUseCase{registry: registry, gate: gate}
}

// Execute переключает объект в избранном посетителя.
// Анонимный посетитель получает ToggleNotAuthenticated без обращения к бэкенду.
func (uc *ToggleFavoriteUseCase) Execute(ctx context.Context, viewer domain.Viewer, propertyID string) (domain.ToggleOutcome, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "ToggleFavorite",
		"viewer_key":  viewer.Key,
		"property_id": propertyID,
	})

	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return "", fmt.Errorf("%w: property id is required", domain.ErrValidation)
	}

	if decision := uc.gate.Authorize(viewer.Session); !decision.Allowed {
		ucLogger.Info("Toggle denied by session gate", port.Fields{"reason": decision.Reason})
		return domain.ToggleNotAuthenticated, fmt.Errorf("%w: %s", domain.ErrNotAuthenticated, decision.Reason)
	}

	ctrl, err := uc.registry.Acquire(ctx, viewer)
	if err != nil {
		ucLogger.Error("Failed to acquire viewer state", err, nil)
		return "", fmt.Errorf("failed to acquire viewer state: %w", err)
	}

	outcome, err := ctrl.Favorites().Toggle(contextkeys.ContextWithLogger(ctx, ucLogger), viewer.Session, propertyID)
	if err != nil {
		ucLogger.Warn("Toggle did not complete", port.Fields{"outcome": outcome, "error": err.Error()})
		return outcome, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"outcome": outcome})
	return outcome, nil
}
