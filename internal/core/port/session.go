package port

import (
	"context"
	"listing-service/internal/core/domain"
	"time"
)

// SessionProviderPort - внешний владелец состояния аутентификации.
// Ядро читает сессию и может только попросить выйти.
type SessionProviderPort interface {
	Current(ctx context.Context) domain.Session
	Logout(ctx context.Context) error
}

// TokenRevocationPort хранит отозванные (после выхода) идентификаторы токенов.
type TokenRevocationPort interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
