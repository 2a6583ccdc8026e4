package rest

import (
	"context"
	"fmt"
	core_port "listing-service/internal/core/port"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ServerConfig - параметры HTTP-сервера.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает маршруты и middleware.
func NewRouter(cfg ServerConfig, handlers *ListingHandler, sessions SessionResolver, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID", viewerHeader},
		ExposedHeaders:   []string{"X-Trace-ID", viewerHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", Healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(sessions))
		r.Use(ViewerMiddleware)

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", handlers.GetListings)
			r.Get("/properties", handlers.GetProperties)
			r.Get("/properties/{propertyID}", handlers.GetPropertyDetails)
			r.Patch("/filters", handlers.UpdateFilters)
			r.Delete("/filters", handlers.ClearFilters)
			r.Post("/reload", handlers.ReloadCatalog)
			r.Post("/search", handlers.Search)
			r.Get("/searches", handlers.GetRecentSearches)
		})

		r.Get("/locations/popular", handlers.GetPopularLocations)
		r.Get("/amenities", handlers.GetAmenities)

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", handlers.GetFavorites)
			r.Post("/{propertyID}/toggle", handlers.ToggleFavorite)
		})

		r.Post("/session/logout", handlers.Logout)
	})

	return r
}

// NewServer создает новый экземпляр сервера.
func NewServer(cfg ServerConfig, handlers *ListingHandler, sessions SessionResolver, baseLogger core_port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, handlers, sessions, baseLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
