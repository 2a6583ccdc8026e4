package usecase

import (
	"context"
	"fmt"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"sync"
	"time"
)

const DefaultCatalogPageSize = 20

// LoadOrchestrator запускает начальные загрузки страницы.
// Загрузки независимы: падение одной не отменяет и не портит другие.
type LoadOrchestrator struct {
	catalog   port.CatalogProviderPort
	locations port.LocationProviderPort
	gate      *ActionGate

	// timeout ограничивает каждую загрузку отдельно, 0 - без ограничения
	timeout  time.Duration
	pageSize int
}

func NewLoadOrchestrator(
	catalog port.CatalogProviderPort,
	locations port.LocationProviderPort,
	gate *ActionGate,
	timeout time.Duration,
	pageSize int,
) *LoadOrchestrator {
	if pageSize <= 0 {
		pageSize = DefaultCatalogPageSize
	}
	return &LoadOrchestrator{
		catalog:   catalog,
		locations: locations,
		gate:      gate,
		timeout:   timeout,
		pageSize:  pageSize,
	}
}

// Mount параллельно загружает каталог, популярные локации и (для вошедшего
// пользователя) избранное, дожидаясь завершения всех трех.
func (o *LoadOrchestrator) Mount(ctx context.Context, ctrl *ListingController, session domain.Session) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "LoadOrchestrator",
		"method":    "Mount",
	})
	ctx = contextkeys.ContextWithLogger(ctx, logger)
	logger.Info("Initial load started", nil)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = o.ReloadCatalog(ctx, ctrl)
	}()
	go func() {
		defer wg.Done()
		o.loadLocations(ctx, ctrl)
	}()

	if o.gate.Authorize(session).Allowed {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.loadFavorites(ctx, ctrl, session.UserID())
		}()
	}

	wg.Wait()
	logger.Info("Initial load finished", nil)
}

// ReloadCatalog заново запрашивает каталог. Успех заменяет объекты и очищает
// ошибку, неудача выставляет ошибку и оставляет прежние объекты.
func (o *LoadOrchestrator) ReloadCatalog(ctx context.Context, ctrl *ListingController) error {
	logger := contextkeys.LoggerFromContext(ctx)

	ctrl.SetLoading(domain.LoadProperties, true)
	defer ctrl.SetLoading(domain.LoadProperties, false)

	loadCtx, cancel := o.withTimeout(ctx)
	defer cancel()

	props, err := o.catalog.FetchProperties(loadCtx, domain.CatalogQuery{Limit: o.pageSize})
	if err != nil {
		logger.Error("Failed to load properties", err, nil)
		ctrl.SetError(domain.LoadProperties, err.Error())
		return fmt.Errorf("%w: failed to load properties: %w", domain.ErrTransport, err)
	}

	ctrl.SetProperties(props)
	ctrl.SetError(domain.LoadProperties, "")
	logger.Debug("Properties loaded", port.Fields{"count": len(props)})
	return nil
}

// loadLocations при любой ошибке подставляет встроенный список и ошибку не показывает.
func (o *LoadOrchestrator) loadLocations(ctx context.Context, ctrl *ListingController) {
	logger := contextkeys.LoggerFromContext(ctx)

	ctrl.SetLoading(domain.LoadLocations, true)
	defer ctrl.SetLoading(domain.LoadLocations, false)

	loadCtx, cancel := o.withTimeout(ctx)
	defer cancel()

	locations, err := o.locations.FetchPopular(loadCtx)
	if err != nil {
		logger.Warn("Failed to load popular locations, using fallback list", port.Fields{"error": err.Error()})
		ctrl.SetPopularLocations(domain.FallbackPopularLocations())
		return
	}
	if len(locations) == 0 {
		locations = domain.FallbackPopularLocations()
	}
	ctrl.SetPopularLocations(locations)
}

func (o *LoadOrchestrator) loadFavorites(ctx context.Context, ctrl *ListingController, userID string) {
	ctrl.SetLoading(domain.LoadFavorites, true)
	defer ctrl.SetLoading(domain.LoadFavorites, false)

	loadCtx, cancel := o.withTimeout(ctx)
	defer cancel()

	if err := ctrl.Favorites().Load(loadCtx, userID); err != nil {
		ctrl.SetError(domain.LoadFavorites, err.Error())
		return
	}
	ctrl.SetError(domain.LoadFavorites, "")
}

func (o *LoadOrchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}
