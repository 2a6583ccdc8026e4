package usecases_port

import (
	"context"
	"listing-service/internal/core/domain"
)

type LogoutUseCasePort interface {
	Execute(ctx context.Context, viewer domain.Viewer) error
}
