package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"sync"
)

// FavoriteTracker хранит множество избранных объектов активного пользователя.
// Локальное состояние меняется только после подтверждения бэкенда.
type FavoriteTracker struct {
	store     port.FavoriteStorePort
	gate      *ActionGate
	publisher port.ActivityPublisherPort
	lock      toggleLock

	mu sync.RWMutex
	// propertyID -> id записи на бэкенде
	records map[string]string
	// порядок добавления, чтобы IDs() был стабильным
	order []string
}

func NewFavoriteTracker(
	store port.FavoriteStorePort,
	gate *ActionGate,
	publisher port.ActivityPublisherPort,
	lockMode domain.ToggleLockMode,
) *FavoriteTracker {
	return &FavoriteTracker{
		store:     store,
		gate:      gate,
		publisher: publisher,
		lock:      newToggleLock(lockMode),
		records:   make(map[string]string),
	}
}

// Load заменяет множество избранного данными бэкенда.
// Дубликаты (несколько записей на один объект) схлопываются, побеждает первая.
func (t *FavoriteTracker) Load(ctx context.Context, userID string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "FavoriteTracker",
		"method":    "Load",
		"user_id":   userID,
	})

	favorites, err := t.store.List(ctx, userID)
	if err != nil {
		logger.Error("Failed to load favorites", err, nil)
		return fmt.Errorf("%w: failed to load favorites: %w", domain.ErrTransport, err)
	}

	records := make(map[string]string, len(favorites))
	order := make([]string, 0, len(favorites))
	for _, fav := range favorites {
		if _, dup := records[fav.PropertyID]; dup {
			logger.Warn("Duplicate favorite record ignored", port.Fields{
				"property_id": fav.PropertyID,
				"favorite_id": fav.ID,
			})
			continue
		}
		records[fav.PropertyID] = fav.ID
		order = append(order, fav.PropertyID)
	}

	t.mu.Lock()
	t.records = records
	t.order = order
	t.mu.Unlock()

	logger.Debug("Favorites loaded", port.Fields{"count": len(order)})
	return nil
}

// Reset очищает множество (например, после выхода пользователя).
func (t *FavoriteTracker) Reset() {
	t.mu.Lock()
	t.records = make(map[string]string)
	t.order = nil
	t.mu.Unlock()
}

// Contains - есть ли объект в избранном.
func (t *FavoriteTracker) Contains(propertyID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.records[propertyID]
	return ok
}

// IDs возвращает копию списка избранных объектов в порядке добавления.
func (t *FavoriteTracker) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Toggle добавляет объект в избранное или убирает его оттуда.
// Пока идет одно переключение, следующее отклоняется с ToggleBusy.
func (t *FavoriteTracker) Toggle(ctx context.Context, session domain.Session, propertyID string) (domain.ToggleOutcome, error) {
	decision := t.gate.Authorize(session)
	if !decision.Allowed {
		return domain.ToggleNotAuthenticated, fmt.Errorf("%w: %s", domain.ErrNotAuthenticated, decision.Reason)
	}

	if !t.lock.TryAcquire(propertyID) {
		return domain.ToggleBusy, domain.ErrToggleInProgress
	}
	defer t.lock.Release(propertyID)

	userID := session.UserID()
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "FavoriteTracker",
		"method":      "Toggle",
		"user_id":     userID,
		"property_id": propertyID,
	})
	ctx = contextkeys.ContextWithLogger(ctx, logger)

	if t.Contains(propertyID) {
		return t.remove(ctx, userID, propertyID)
	}
	return t.add(ctx, userID, propertyID)
}

func (t *FavoriteTracker) add(ctx context.Context, userID, propertyID string) (domain.ToggleOutcome, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	fav, err := t.store.Create(ctx, userID, propertyID)
	if err != nil {
		logger.Error("Failed to create favorite", err, nil)
		return domain.TogglePersistenceFailed, fmt.Errorf("%w: failed to add favorite: %w", domain.ErrTransport, err)
	}

	t.mu.Lock()
	if _, ok := t.records[propertyID]; !ok {
		t.order = append(t.order, propertyID)
	}
	t.records[propertyID] = fav.ID
	t.mu.Unlock()

	logger.Info("Property added to favorites", port.Fields{"favorite_id": fav.ID})

	event := domain.NewActivityEvent(domain.ActivityFavoriteAdded, userID)
	event.PropertyID = propertyID
	publishActivity(ctx, t.publisher, event)

	return domain.ToggleAdded, nil
}

func (t *FavoriteTracker) remove(ctx context.Context, userID, propertyID string) (domain.ToggleOutcome, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	favoriteID, err := t.resolveRecordID(ctx, userID, propertyID)
	if err != nil {
		return domain.TogglePersistenceFailed, err
	}
	if favoriteID == "" {
		logger.Warn("Favorite record not found on backend, local state left unchanged", nil)
		return domain.ToggleInconsistent, fmt.Errorf("%w: property %s", domain.ErrInconsistentFavorite, propertyID)
	}

	if err := t.store.Delete(ctx, favoriteID); err != nil {
		logger.Error("Failed to delete favorite", err, port.Fields{"favorite_id": favoriteID})
		return domain.TogglePersistenceFailed, fmt.Errorf("%w: failed to remove favorite: %w", domain.ErrTransport, err)
	}

	t.mu.Lock()
	delete(t.records, propertyID)
	for i, id := range t.order {
		if id == propertyID {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	t.mu.Unlock()

	logger.Info("Property removed from favorites", port.Fields{"favorite_id": favoriteID})

	event := domain.NewActivityEvent(domain.ActivityFavoriteRemoved, userID)
	event.PropertyID = propertyID
	publishActivity(ctx, t.publisher, event)

	return domain.ToggleRemoved, nil
}

// resolveRecordID ищет id записи сначала локально, затем в свежем списке бэкенда.
// Пустая строка без ошибки - запись не найдена.
func (t *FavoriteTracker) resolveRecordID(ctx context.Context, userID, propertyID string) (string, error) {
	t.mu.RLock()
	id := t.records[propertyID]
	t.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	favorites, err := t.store.List(ctx, userID)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to re-fetch favorites", err, nil)
		return "", fmt.Errorf("%w: failed to resolve favorite: %w", domain.ErrTransport, err)
	}
	for _, fav := range favorites {
		if fav.PropertyID == propertyID {
			return fav.ID, nil
		}
	}
	return "", nil
}
