package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"techzeon/internal/auth"
	"techzeon/internal/cache"
	"techzeon/internal/config"
	"techzeon/internal/database"
	"techzeon/internal/handlers"
	"techzeon/internal/jobs"
	"techzeon/internal/messaging"
	"techzeon/internal/metrics"
	"techzeon/internal/middleware"
	"techzeon/internal/models"
	"techzeon/internal/repository"
	"techzeon/internal/search"
	"techzeon/internal/service"
	"techzeon/internal/ticket"

	"github.com/gin-gonic/gin"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	cache    *cache.ValkeyClient
	nats     *messaging.NATSClient
	search   *search.ElasticsearchClient
	metrics  *metrics.Metrics
	services *service.Services
	repos    *repository.Repositories
	backfill *jobs.TicketBackfillJob
	stopJobs context.CancelFunc
}

// NewServer подключает зависимости, засевает администратора и настраивает роуты.
// Only the database is mandatory; cache, messaging and search are skipped
// with a warning when unconfigured or unreachable.
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Server{
		config: cfg,
		db:     db,
		repos:  repository.NewRepositories(db),
	}

	opts := service.Options{
		Tokens:            auth.NewTokenManager(cfg.Auth),
		Tickets:           ticket.NewGenerator(cfg.Ticket.Prefix),
		TicketMaxAttempts: cfg.Ticket.MaxAttempts,
	}

	if cfg.Cache.Enabled() {
		if s.cache, err = cache.NewValkeyClient(cfg.Cache); err != nil {
			slog.Warn("Valkey unavailable, running without cache and token revocation", "error", err)
		} else {
			opts.Cache = s.cache
		}
	}

	if cfg.NATS.Enabled() {
		if s.nats, err = messaging.NewNATSClient(cfg.NATS); err != nil {
			slog.Warn("NATS Streaming unavailable, notifications disabled", "error", err)
		} else {
			opts.Publisher = s.nats
		}
	}

	if cfg.Elasticsearch.Enabled() {
		if s.search, err = search.NewElasticsearchClient(cfg.Elasticsearch); err != nil {
			slog.Warn("Elasticsearch unavailable, search falls back to SQL", "error", err)
		} else {
			opts.Search = s.search
		}
	}

	if cfg.MetricsEnabled {
		s.metrics = metrics.New()
		opts.Metrics = s.metrics
	}

	s.services = service.NewServices(s.repos, opts)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.services.Auth.EnsureAdmin(seedCtx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		s.Cleanup()
		return nil, err
	}

	s.router = gin.New()
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.Timeout(cfg.RequestTimeout))
	if s.metrics != nil {
		s.router.Use(middleware.Metrics(s.metrics))
	}

	s.setupRoutes()
	s.startBackground(opts.Tickets)

	return s, nil
}

func (s *Server) setupRoutes() {
	checks := map[string]handlers.HealthFunc{}
	if s.cache != nil {
		checks["cache"] = s.cache.Ping
	}
	if s.search != nil {
		checks["search"] = s.search.HealthCheck
	}

	h := handlers.NewHandlers(s.services, s.db, checks)
	h.RegisterRoutes(s.router, s.services.Auth)

	s.router.GET("/health", h.Health)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

func (s *Server) startBackground(tickets *ticket.Generator) {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopJobs = cancel

	s.backfill = jobs.NewTicketBackfillJob(s.repos.Registrations, tickets.Next,
		s.config.Ticket.MaxAttempts, s.config.Jobs.TicketBackfillInterval)
	s.backfill.Start(ctx)

	if s.search != nil {
		go func() {
			events, err := s.repos.Events.List(ctx, models.EventFilter{})
			if err != nil {
				slog.Error("Failed to load events for reindex", "error", err)
				return
			}
			if err := s.search.Reindex(ctx, events); err != nil {
				slog.Error("Failed to reindex events", "error", err)
			}
		}()
	}
}

// Handler возвращает роутер для http.Server и тестов
func (s *Server) Handler() http.Handler {
	return s.router
}

// Cleanup останавливает фоновые задачи и закрывает соединения
func (s *Server) Cleanup() error {
	if s.stopJobs != nil {
		s.stopJobs()
	}
	if s.backfill != nil {
		s.backfill.Stop()
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
