package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"inventory/internal/config"
	"inventory/internal/domain"
	custommiddleware "inventory/internal/middleware"
	"inventory/internal/render"
	"inventory/internal/repository"
	"inventory/internal/service"
	"inventory/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store is one storage backend: its repositories plus lifecycle hooks
type Store struct {
	Driver     string
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	Ping       func(ctx context.Context) error
	Close      func() error
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  Store
	redis  *redis.Client
}

// NewServer wires services, handlers and middleware. redisClient may be nil,
// in which case requests are not rate limited.
func NewServer(cfg *config.Config, logger *zap.Logger, store Store, redisClient *redis.Client) (*Server, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	metrics := custommiddleware.NewMetrics()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(metrics.Middleware)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.Compress(5))

	if redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "inventory_rate_limit",
		}, logger))
	}

	router.Get("/health", healthHandler(store, logger))
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, domain.BasePath+"/", http.StatusFound)
	})

	// Services
	categoryService := service.NewCategoryService(store.Categories, store.Products)
	productService := service.NewProductService(store.Products, store.Categories)
	inventoryService := service.NewInventoryService(store.Products, store.Categories)

	// Handlers
	homeHandler := transport.NewHomeHandler(inventoryService, renderer, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, renderer, logger)
	productHandler := transport.NewProductHandler(productService, renderer, logger)

	router.Route(domain.BasePath, func(r chi.Router) {
		r.Use(custommiddleware.NewCSRF(cfg.Server.IsProduction()))

		homeHandler.RegisterRoutes(r)
		categoryHandler.RegisterRoutes(r)
		productHandler.RegisterRoutes(r)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderer.NotFound(w, r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  store,
		redis:  redisClient,
	}

	return server, nil
}

func healthHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if store.Ping != nil {
			if err := store.Ping(ctx); err != nil {
				logger.Warn("Health check failed", zap.String("driver", store.Driver), zap.Error(err))
				custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"store":  store.Driver,
				})
				return
			}
		}

		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"store":  store.Driver,
		})
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.store.Close != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close store", zap.String("driver", s.store.Driver), zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
