package internal

import (
	"context"
	"fmt"
	logger_adapter "listing-service/internal/adapters/logger"
	postgres_adapter "listing-service/internal/adapters/postgres"
	rabbitmq_adapter "listing-service/internal/adapters/rabbitmq"
	records_client "listing-service/internal/adapters/records"
	redis_adapter "listing-service/internal/adapters/redis"
	"listing-service/internal/adapters/rest"
	session_adapter "listing-service/internal/adapters/session"
	static_adapter "listing-service/internal/adapters/static"
	"listing-service/internal/configs"
	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/usecase"
	fluentlogger "listing-service/pkg/fluent_logger"
	"listing-service/pkg/postgres"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_producer"
	"listing-service/pkg/redis"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// backend - реализации портов хранилища для выбранного источника данных.
type backend struct {
	catalog   port.CatalogProviderPort
	locations port.LocationProviderPort
	amenities port.AmenityProviderPort
	favorites port.FavoriteStorePort
	history   port.SearchHistoryStorePort
}

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	registry  *usecase.ViewerRegistry

	dbPool            *pgxpool.Pool
	redisClient       *goredis.Client
	rabbitMQManager   *rabbitmq_common.ConnectionManager
	activityPublisher *rabbitmq_producer.Publisher

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ ---
	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}
	initCtx := contextkeys.ContextWithLogger(context.Background(), appLogger)

	// --- 3. ИСТОЧНИК ДАННЫХ ---
	store, err := application.initBackend(initCtx)
	if err != nil {
		application.close()
		return nil, err
	}

	// --- 4. REDIS: отзыв токенов и кэш каталога ---
	var revocations port.TokenRevocationPort = session_adapter.NewInMemoryRevocationStore()
	if appConfig.Redis.Addr != "" {
		redisClient, err := redis.NewClient(initCtx, redis.Config{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		if err != nil {
			appLogger.Error("Failed to connect to Redis", err, nil)
			application.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		application.redisClient = redisClient
		appLogger.Info("Successfully connected to Redis!", nil)

		revocations = redis_adapter.NewTokenRevocationStore(redisClient)
		if appConfig.Redis.CacheTTL > 0 {
			cached := redis_adapter.NewCatalogProvider(redisClient, store.catalog, store.locations, appConfig.Redis.CacheTTL)
			store.catalog = cached
			store.locations = cached
		}
	} else {
		appLogger.Warn("REDIS_ADDR is not set, using in-memory token revocation and no catalog cache", nil)
	}

	// --- 5. RABBITMQ: события активности ---
	var activity port.ActivityPublisherPort
	if appConfig.RabbitMQ.URL != "" {
		activity, err = application.initActivityPublisher(baseLogger)
		if err != nil {
			application.close()
			return nil, err
		}
	} else {
		appLogger.Warn("RABBITMQ_URL is not set, activity events are disabled", nil)
	}

	sessions, err := session_adapter.NewJWTSessionProvider(appConfig.Auth.JWTSecret, revocations)
	if err != nil {
		application.close()
		return nil, fmt.Errorf("failed to create session provider: %w", err)
	}
	appLogger.Info("All persistence and service adapters initialized.", port.Fields{"backend": appConfig.Listing.Backend})

	// --- 6. ЯДРО ---
	gate := usecase.NewActionGate()
	lockMode := domain.ToggleLockMode(appConfig.Listing.FavoritesToggleLock)
	newTracker := func() *usecase.FavoriteTracker {
		return usecase.NewFavoriteTracker(store.favorites, gate, activity, lockMode)
	}
	orchestrator := usecase.NewLoadOrchestrator(store.catalog, store.locations, gate, appConfig.Listing.LoadTimeout, appConfig.Listing.PageSize)
	registry := usecase.NewViewerRegistry(orchestrator, newTracker, appConfig.Listing.ViewerIdleTTL, appConfig.Listing.MaxViewers)
	application.registry = registry

	handlers := rest.NewListingHandler(rest.ListingUseCases{
		GetListings:         usecase.NewGetListingsUseCase(registry),
		GetProperties:       usecase.NewGetPropertiesUseCase(registry),
		GetPropertyDetails:  usecase.NewGetPropertyDetailsUseCase(store.catalog, store.amenities, registry, gate, appConfig.Listing.LoadTimeout),
		GetAmenities:        usecase.NewGetAmenitiesUseCase(store.amenities),
		UpdateFilters:       usecase.NewUpdateFiltersUseCase(registry),
		ClearFilters:        usecase.NewClearFiltersUseCase(registry),
		ReloadCatalog:       usecase.NewReloadCatalogUseCase(registry, orchestrator),
		SearchProperties:    usecase.NewSearchPropertiesUseCase(registry, store.catalog, store.history, gate, activity, appConfig.Listing.LoadTimeout, appConfig.Listing.PageSize),
		GetRecentSearches:   usecase.NewGetRecentSearchesUseCase(store.history, gate),
		GetPopularLocations: usecase.NewGetPopularLocationsUseCase(registry),
		GetFavorites:        usecase.NewGetFavoritesUseCase(registry),
		ToggleFavorite:      usecase.NewToggleFavoriteUseCase(registry, gate),
		Logout:              usecase.NewLogoutUseCase(sessions, registry),
	})

	application.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.PORT,
		AllowedOrigins: appConfig.Rest.AllowedOrigins,
	}, handlers, sessions, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

func (a *App) initBackend(ctx context.Context) (*backend, error) {
	cfg := a.config
	switch cfg.Listing.Backend {
	case configs.BackendRecords:
		client, err := records_client.NewClient(records_client.Config{
			BaseURL:   cfg.Records.URL,
			ProjectID: cfg.Records.ProjectID,
			APIKey:    cfg.Records.APIKey,
			Timeout:   cfg.Records.Timeout,
		})
		if err != nil {
			a.logger.Error("Failed to create records API client", err, nil)
			return nil, fmt.Errorf("failed to create records client: %w", err)
		}
		catalog := records_client.NewCatalogProvider(client)
		return &backend{
			catalog:   catalog,
			locations: catalog,
			amenities: catalog,
			favorites: records_client.NewFavoriteStore(client),
			history:   records_client.NewSearchHistoryStore(client),
		}, nil

	case configs.BackendPostgres:
		dbPool, err := postgres.NewClient(ctx, postgres.Config{
			DatabaseURL:    cfg.Database.URL,
			ConnectTimeout: 10 * time.Second,
		})
		if err != nil {
			a.logger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.dbPool = dbPool
		a.logger.Info("Successfully connected to PostgreSQL pool!", nil)

		if cfg.Database.AutoMigrate {
			if err := postgres_adapter.EnsureSchema(ctx, dbPool); err != nil {
				a.logger.Error("Failed to apply database schema", err, nil)
				return nil, fmt.Errorf("failed to apply database schema: %w", err)
			}
		}

		catalog, err := postgres_adapter.NewCatalogRepository(dbPool)
		if err != nil {
			return nil, fmt.Errorf("failed to create catalog repository: %w", err)
		}
		favorites, err := postgres_adapter.NewFavoritesRepository(dbPool)
		if err != nil {
			return nil, fmt.Errorf("failed to create favorites repository: %w", err)
		}
		history, err := postgres_adapter.NewSearchHistoryRepository(dbPool)
		if err != nil {
			return nil, fmt.Errorf("failed to create search history repository: %w", err)
		}
		return &backend{catalog: catalog, locations: catalog, amenities: catalog, favorites: favorites, history: history}, nil

	default:
		dataset, err := static_adapter.EmbeddedDataset()
		if err != nil {
			a.logger.Error("Embedded dataset is invalid", err, nil)
			return nil, fmt.Errorf("failed to load embedded dataset: %w", err)
		}
		catalog := static_adapter.NewCatalogProvider(dataset)
		return &backend{
			catalog:   catalog,
			locations: catalog,
			amenities: catalog,
			favorites: static_adapter.NewFavoriteStore(),
			history:   static_adapter.NewSearchHistoryStore(cfg.Listing.SearchHistoryKept),
		}, nil
	}
}

func (a *App) initActivityPublisher(baseLogger port.LoggerPort) (port.ActivityPublisherPort, error) {
	bridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

	manager, err := rabbitmq_common.NewConnectionManager(a.config.RabbitMQ.URL, bridge)
	if err != nil {
		a.logger.Error("Failed to connect to RabbitMQ", err, nil)
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	a.rabbitMQManager = manager

	publisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:             constants.ActivityExchange,
		ExchangeType:             constants.ActivityExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   bridge,
	}, manager)
	if err != nil {
		a.logger.Error("Failed to create activity publisher", err, nil)
		return nil, fmt.Errorf("failed to create rabbitmq publisher: %w", err)
	}
	a.activityPublisher = publisher

	adapter, err := rabbitmq_adapter.NewActivityPublisherAdapter(publisher)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Activity publisher initialized", port.Fields{"exchange": constants.ActivityExchange})
	return adapter, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := a.apiServer.Stop(shutdownCtx); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
			cancel()
		}

		a.close()
	}()

	a.logger.Info("Application is starting...", nil)

	go a.sweepViewers(appCtx)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
		runErr = err
	}

	cancelApp()
	return runErr
}

// sweepViewers периодически забывает неактивных посетителей.
func (a *App) sweepViewers(ctx context.Context) {
	interval := a.config.Listing.SweepInterval
	if interval <= 0 || a.config.Listing.ViewerIdleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := a.registry.Sweep(); removed > 0 {
				a.logger.Debug("Idle viewers swept", port.Fields{"removed": removed, "active": a.registry.Len()})
			}
		}
	}
}

// close освобождает внешние ресурсы в порядке, обратном созданию.
func (a *App) close() {
	if a.activityPublisher != nil {
		if err := a.activityPublisher.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ publisher", err, nil)
		}
	}
	if a.rabbitMQManager != nil {
		if err := a.rabbitMQManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
