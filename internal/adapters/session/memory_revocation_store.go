package session_adapter

import (
	"context"
	"sync"
	"time"
)

// InMemoryRevocationStore - хранилище отозванных токенов для одного инстанса.
type InMemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	return &InMemoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *InMemoryRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = s.now().Add(ttl)
	s.cleanupLocked()
	return nil
}

func (s *InMemoryRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expiresAt, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	return s.now().Before(expiresAt), nil
}

// cleanupLocked удаляет истекшие записи. Вызывается под s.mu.
func (s *InMemoryRevocationStore) cleanupLocked() {
	now := s.now()
	for id, expiresAt := range s.revoked {
		if !now.Before(expiresAt) {
			delete(s.revoked, id)
		}
	}
}
