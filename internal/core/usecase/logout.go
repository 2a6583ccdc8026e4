package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type LogoutUseCase struct {
	sessions port.SessionProviderPort
	registry *ViewerRegistry
}

func NewLogoutUseCase(sessions port.SessionProviderPort, registry *ViewerRegistry) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, registry: registry}
}

// Execute завершает сессию и забывает состояние посетителя.
func (uc *LogoutUseCase) Execute(ctx context.Context, viewer domain.Viewer) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "Logout",
		"viewer_key": viewer.Key,
	})

	if !viewer.Session.Authenticated {
		uc.registry.Drop(viewer.Key)
		return fmt.Errorf("%w: %s", domain.ErrNotAuthenticated, domain.DenyReasonNotAuthenticated)
	}

	if err := uc.sessions.Logout(ctx); err != nil {
		ucLogger.Error("Session provider failed to log out", err, nil)
		return fmt.Errorf("%w: logout failed: %w", domain.ErrTransport, err)
	}

	uc.registry.Drop(viewer.Key)
	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
