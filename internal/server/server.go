package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/physicistcolloh-png/base43/config"
	"github.com/physicistcolloh-png/base43/internal/handlers"
	"github.com/physicistcolloh-png/base43/internal/middleware"
	"github.com/physicistcolloh-png/base43/internal/mq"
	"github.com/physicistcolloh-png/base43/internal/services"
	"github.com/physicistcolloh-png/base43/internal/storage"
	"github.com/physicistcolloh-png/base43/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	events     *mq.MQ
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = strings.TrimSpace(cfg.JWTSecret)
	}
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	userStore := store.NewUserStore()
	sessionStore := store.NewSessionStore()
	lockStore := store.NewLockStore()

	events, err := newEventFeed(cfg)
	if err != nil {
		return nil, err
	}

	exports, err := newExportStorage(ctx, cfg)
	if err != nil {
		_ = events.Close()
		return nil, err
	}

	userService := services.NewUserService(userStore)
	buildService := services.NewBuildService(userService, sessionStore, lockStore, events, exports, cfg.UpgradeURL)
	integrationService := services.NewIntegrationService(userService, sessionStore)
	chatService := services.NewChatService(cfg.OpenAI)

	authMiddleware := handlers.RequireAuth(jwtSecret)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	router := chi.NewRouter()
	router.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		chimiddleware.Logger,
		chimiddleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	pricingHandler := handlers.NewPricingHandler(cfg.UpgradeURL)

	router.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Handler)
		r.Get("/pricing", pricingHandler.Pricing)
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, jwtSecret)
		})
		r.Route("/builds", func(r chi.Router) {
			handlers.BuildRouter(r, buildService, authMiddleware)
		})
		r.Route("/integrations", func(r chi.Router) {
			handlers.IntegrationRouter(r, integrationService, authMiddleware)
		})
		r.Route("/chat", func(r chi.Router) {
			handlers.ChatRouter(r, chatService, authMiddleware)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		events:     events,
	}, nil
}

// newEventFeed picks the RabbitMQ backend when a broker is configured,
// otherwise the in-process backend.
func newEventFeed(cfg config.Config) (*mq.MQ, error) {
	if strings.TrimSpace(cfg.RabbitMQ.URL) == "" {
		return mq.New(mq.NewMemoryBackend()), nil
	}
	backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}
	return mq.New(backend), nil
}

// newExportStorage picks the MinIO backend when an endpoint is
// configured, otherwise the in-memory backend.
func newExportStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	if strings.TrimSpace(cfg.Minio.Endpoint) == "" {
		return storage.NewStorage(storage.NewMemoryBackend(cfg.Minio.Bucket)), nil
	}
	backend, err := storage.NewMinioClient(cfg.Minio)
	if err != nil {
		return nil, err
	}
	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return storage.NewStorage(backend), nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.events != nil {
		_ = s.events.Close()
	}
	return s.httpServer.Close()
}
