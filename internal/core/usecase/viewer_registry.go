package usecase

import (
	"context"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"sync"
	"time"
)

type viewerEntry struct {
	ctrl     *ListingController
	ready    chan struct{}
	lastSeen time.Time
}

// ViewerRegistry держит по одному ListingController на посетителя.
// Первый запрос посетителя выполняет начальную загрузку, остальные ее дожидаются.
type ViewerRegistry struct {
	mu      sync.Mutex
	viewers map[string]*viewerEntry

	orchestrator *LoadOrchestrator
	newTracker   func() *FavoriteTracker
	idleTTL      time.Duration
	// maxViewers ограничивает число состояний в памяти, 0 - без ограничения
	maxViewers int
	now        func() time.Time
}

func NewViewerRegistry(orchestrator *LoadOrchestrator, newTracker func() *FavoriteTracker, idleTTL time.Duration, maxViewers int) *ViewerRegistry {
	return &ViewerRegistry{
		viewers:      make(map[string]*viewerEntry),
		orchestrator: orchestrator,
		newTracker:   newTracker,
		idleTTL:      idleTTL,
		maxViewers:   maxViewers,
		now:          time.Now,
	}
}

// Acquire возвращает состояние посетителя, при первом обращении загружая его.
// Загрузка не прерывается отменой ctx: ее результат нужен следующим запросам.
func (r *ViewerRegistry) Acquire(ctx context.Context, viewer domain.Viewer) (*ListingController, error) {
	r.mu.Lock()
	entry, ok := r.viewers[viewer.Key]
	if ok {
		entry.lastSeen = r.now()
		r.mu.Unlock()

		select {
		case <-entry.ready:
			return entry.ctrl, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if r.maxViewers > 0 && len(r.viewers) >= r.maxViewers {
		r.evictOldestLocked()
	}
	entry = &viewerEntry{
		ctrl:     NewListingController(r.newTracker()),
		ready:    make(chan struct{}),
		lastSeen: r.now(),
	}
	r.viewers[viewer.Key] = entry
	r.mu.Unlock()

	contextkeys.LoggerFromContext(ctx).Debug("Mounting new viewer", port.Fields{
		"viewer_key":    viewer.Key,
		"authenticated": viewer.Session.Authenticated,
	})

	r.orchestrator.Mount(context.WithoutCancel(ctx), entry.ctrl, viewer.Session)
	close(entry.ready)
	return entry.ctrl, nil
}

// Drop забывает посетителя (например, после выхода).
func (r *ViewerRegistry) Drop(key string) {
	r.mu.Lock()
	delete(r.viewers, key)
	r.mu.Unlock()
}

// Sweep удаляет посетителей, не обращавшихся дольше idleTTL. Возвращает число удаленных.
func (r *ViewerRegistry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	deadline := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, entry := range r.viewers {
		select {
		case <-entry.ready:
		default:
			// еще загружается
			continue
		}
		if entry.lastSeen.Before(deadline) {
			delete(r.viewers, key)
			removed++
		}
	}
	return removed
}

// evictOldestLocked удаляет загруженного посетителя, обращавшегося раньше всех.
// Вызывается под r.mu.
func (r *ViewerRegistry) evictOldestLocked() {
	var (
		oldestKey  string
		oldestSeen time.Time
	)
	for key, entry := range r.viewers {
		select {
		case <-entry.ready:
		default:
			continue
		}
		if oldestKey == "" || entry.lastSeen.Before(oldestSeen) {
			oldestKey = key
			oldestSeen = entry.lastSeen
		}
	}
	if oldestKey != "" {
		delete(r.viewers, oldestKey)
	}
}

func (r *ViewerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers)
}
