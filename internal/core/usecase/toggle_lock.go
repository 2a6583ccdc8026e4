package usecase

import (
	"listing-service/internal/core/domain"
	"sync"
)

// toggleLock - флаг "переключение в процессе".
type toggleLock interface {
	TryAcquire(propertyID string) bool
	Release(propertyID string)
}

func newToggleLock(mode domain.ToggleLockMode) toggleLock {
	if mode == domain.ToggleLockPerProperty {
		return &perPropertyToggleLock{busy: make(map[string]bool)}
	}
	return &sharedToggleLock{}
}

// sharedToggleLock - один флаг на все объекты: пока идет переключение A,
// переключение B тоже отклоняется.
type sharedToggleLock struct {
	mu   sync.Mutex
	busy bool
}

func (l *sharedToggleLock) TryAcquire(string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return false
	}
	l.busy = true
	return true
}

func (l *sharedToggleLock) Release(string) {
	l.mu.Lock()
	l.busy = false
	l.mu.Unlock()
}

// perPropertyToggleLock блокирует только повторное переключение того же объекта.
type perPropertyToggleLock struct {
	mu   sync.Mutex
	busy map[string]bool
}

func (l *perPropertyToggleLock) TryAcquire(propertyID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy[propertyID] {
		return false
	}
	l.busy[propertyID] = true
	return true
}

func (l *perPropertyToggleLock) Release(propertyID string) {
	l.mu.Lock()
	delete(l.busy, propertyID)
	l.mu.Unlock()
}
