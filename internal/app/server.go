// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"skilltracker-console/internal/config"
	"skilltracker-console/internal/console"
	"skilltracker-console/internal/db"
	"skilltracker-console/internal/domain/audit"
	"skilltracker-console/internal/gateway"
	auditHandler "skilltracker-console/internal/handlers/audit"
	authHandler "skilltracker-console/internal/handlers/auth"
	catalogHandler "skilltracker-console/internal/handlers/catalog"
	dashboardHandler "skilltracker-console/internal/handlers/dashboard"
	employeeHandler "skilltracker-console/internal/handlers/employee"
	wsHandler "skilltracker-console/internal/handlers/websocket"
	"skilltracker-console/internal/middleware"
	"skilltracker-console/internal/pkg/session"
	"skilltracker-console/internal/repository/postgres"
	audittrail "skilltracker-console/internal/service/audit"
	authUsecase "skilltracker-console/internal/service/auth"
	"skilltracker-console/internal/websocket"
	wsHandlers "skilltracker-console/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

type Server struct {
	cfg     config.AppConfig
	engine  *gin.Engine
	http    *http.Server
	logger  *zap.Logger
	ready   atomic.Bool
	closers []func()
}

// NewServer connects the backing stores and wires the console. The hub runs
// until ctx is cancelled.
func NewServer(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{cfg: cfg, engine: gin.New(), logger: logger}
	if err := s.wire(ctx); err != nil {
		s.close()
		return nil, err
	}

	s.http = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) wire(ctx context.Context) error {
	cfg := s.cfg
	logger := s.logger

	baseURL, err := gateway.ParseBaseURL(cfg.APIBaseURL)
	if err != nil {
		return err
	}

	// ----- Session store & rate limiter -----
	var (
		sessions session.Backend
		limiter  authUsecase.LoginLimiter
	)
	switch cfg.SessionBackend {
	case config.BackendMemory:
		sessions = session.NewMemoryBackend()
		logger.Warn("using in-memory session backend, sessions are lost on restart")
	default:
		redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
			Addresses: []string{cfg.RedisAddr},
			Password:  cfg.RedisPass,
			PoolSize:  10,
		})
		if err != nil {
			return err
		}
		s.closers = append(s.closers, func() { _ = redisClient.Close() })
		logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

		sessions = session.NewRedisBackend(redisClient, cfg.SessionTTL)
		limiter = session.NewRateLimiter(redisClient)
	}

	// ----- Audit trail -----
	var (
		recorder audit.Recorder = audit.NopRecorder{}
		lister   auditHandler.Lister
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPostgresPool(ctx, db.PostgresConfig{URL: cfg.DatabaseURL, MaxConns: 5})
		if err != nil {
			return err
		}
		s.closers = append(s.closers, pool.Close)

		auditRepo := postgres.NewAuditRepository(pool)
		if err := auditRepo.EnsureSchema(ctx); err != nil {
			return err
		}
		recorder = auditRepo
		lister = auditRepo
		logger.Info("audit trail enabled")
	}

	// ----- Metrics -----
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)

	// ----- Workspaces -----
	workspaces, err := console.NewRegistry(cfg.WorkspaceCacheSize, console.Options{
		BaseURL:          baseURL,
		Sessions:         sessions,
		Limiter:          limiter,
		Audit:            recorder,
		Notifier:         hub,
		Metrics:          gateway.NewMetrics(registry),
		SessionTTL:       cfg.SessionTTL,
		EmployeePageSize: cfg.EmployeePageSize,
		PickerSize:       cfg.ManagerPickerSize,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create workspace registry: %w", err)
	}

	hub.RegisterHandler(wsHandlers.NewViewHandler(workspaces))
	go hub.Run(ctx)

	// ----- Handlers -----
	trail := audittrail.NewTrail(recorder, logger)
	handlers := &Handlers{
		AuthHandler:       authHandler.NewAuthHandler(workspaces, logger),
		DashboardHandler:  dashboardHandler.NewDashboardHandler(logger),
		EmployeeHandler:   employeeHandler.NewEmployeeHandler(trail, logger),
		SkillHandler:      catalogHandler.NewSkillHandler(trail, logger),
		DepartmentHandler: catalogHandler.NewDepartmentHandler(trail, logger),
		AuditHandler:      auditHandler.NewAuditHandler(lister, logger),
		WSHandler:         wsHandler.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(workspaces, session.NewCookieSigner(cfg.SessionSecret), middleware.CookieConfig{
			Name:   cfg.SessionCookieName,
			Secure: cfg.SessionCookieSecure,
			MaxAge: int(cfg.SessionTTL.Seconds()),
		}, logger),
		Metrics: registry,
		Ready:   s.ready.Load,
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.PrometheusMiddleware(registry),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
	)

	SetupRouter(s.engine, handlers)
	return nil
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until Shutdown is called.
func (s *Server) Run() error {
	s.ready.Store(true)
	s.logger.Info("console listening", zap.String("addr", s.cfg.HTTPAddr))

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, drains in-flight ones and closes the
// backing stores.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	err := s.http.Shutdown(ctx)
	s.close()
	return err
}

func (s *Server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
