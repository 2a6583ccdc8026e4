package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const DefaultRecentSearchesLimit = 5

type GetRecentSearchesUseCase struct {
	history port.SearchHistoryStorePort
	gate    *ActionGate
}

func NewGetRecentSearchesUseCase(history port.SearchHistoryStorePort, gate *ActionGate) *GetRecentSearchesUseCase {
	return &GetRecentSearchesUseCase{history: history, gate: gate}
}

// Execute возвращает последние поиски пользователя, новые первыми.
func (uc *GetRecentSearchesUseCase) Execute(ctx context.Context, session domain.Session, limit int) ([]domain.SearchRecord, error) {
	if decision := uc.gate.Authorize(session); !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotAuthenticated, decision.Reason)
	}
	if limit <= 0 {
		limit = DefaultRecentSearchesLimit
	}

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetRecentSearches",
		"user_id":  session.UserID(),
		"limit":    limit,
	})

	records, err := uc.history.ListRecent(ctx, session.UserID(), limit)
	if err != nil {
		ucLogger.Error("Search history store returned an error", err, nil)
		return nil, fmt.Errorf("%w: failed to list recent searches: %w", domain.ErrTransport, err)
	}

	ucLogger.Debug("Use case finished successfully", port.Fields{"count": len(records)})
	return records, nil
}
