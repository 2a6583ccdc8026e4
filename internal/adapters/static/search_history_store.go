package static_adapter

import (
	"context"
	"listing-service/internal/core/domain"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SearchHistoryStore хранит историю поиска в памяти процесса.
type SearchHistoryStore struct {
	mu      sync.RWMutex
	byUser  map[string][]domain.SearchRecord
	maxKept int
	now     func() time.Time
}

// NewSearchHistoryStore хранит не более maxKept последних поисков на пользователя (0 - без ограничения).
func NewSearchHistoryStore(maxKept int) *SearchHistoryStore {
	return &SearchHistoryStore{
		byUser:  make(map[string][]domain.SearchRecord),
		maxKept: maxKept,
		now:     time.Now,
	}
}

func (s *SearchHistoryStore) Save(ctx context.Context, userID string, params domain.SearchParams) (*domain.SearchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record := domain.SearchRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		Params:     params,
		SearchedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records := append(s.byUser[userID], record)
	if s.maxKept > 0 && len(records) > s.maxKept {
		records = records[len(records)-s.maxKept:]
	}
	s.byUser[userID] = records
	return &record, nil
}

// ListRecent возвращает до limit последних поисков, новые первыми.
func (s *SearchHistoryStore) ListRecent(ctx context.Context, userID string, limit int) ([]domain.SearchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.byUser[userID]
	out := make([]domain.SearchRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, records[i])
	}
	return out, nil
}
