package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jub0bs/cors"

	povodb "github.com/povodb/povodb-ui"
	"github.com/povodb/povodb-ui/internal/logger"
	"github.com/povodb/povodb-ui/internal/ui/config"
	"github.com/povodb/povodb-ui/internal/ui/handlers"
	"github.com/povodb/povodb-ui/internal/ui/queries"
)

type Server struct {
	router         *chi.Mux
	config         *config.Config
	logger         *slog.Logger
	corsMiddleware *cors.Middleware
	queries        *queries.Service
}

// NewServer creates the ui server. The queries service (and the cache behind it) is owned by the caller.
func NewServer(cfg *config.Config, corsMiddleware *cors.Middleware, queries *queries.Service, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router:         chi.NewRouter(),
		config:         cfg,
		logger:         logger,
		corsMiddleware: corsMiddleware,
		queries:        queries,
	}

	s.setupMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) registerRoutes() error {
	handlerService := &handlers.HandlerService{
		Queries:         s.queries,
		Environment:     s.config.Environment,
		RefetchInterval: s.config.RefetchInterval,
	}

	proxy, err := newAPIProxy(s.config.APIBaseURL)
	if err != nil {
		return err
	}

	// one limiter for the ui and the proxied API
	rateLimit := RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst)

	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("./web/static/"))))

	s.router.Get("/health/live", handlerService.LivenessHandler)
	s.router.Get("/health/ready", handlerService.ReadinessHandler)

	// same origin access to the API
	s.router.Group(func(r chi.Router) {
		r.Use(CORS(s.corsMiddleware))
		r.Use(rateLimit)
		r.Use(RequestSizeLimit(s.config.MaxProxyRequestSize))

		r.Handle(povodb.APIBasePath+"/*", proxy)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(rateLimit)

		r.Get("/", handlerService.HomePage)
		r.Get("/politicians", handlerService.PoliticiansPage)
		r.Get("/politicians/{id}", handlerService.PoliticianDetailPage)
		r.Get("/bills", handlerService.BillsPage)
		r.Get("/bills/{id}", handlerService.BillDetailPage)
		r.Get("/votes", handlerService.VotesPage)
		r.Get("/contributions", handlerService.ContributionsPage)
		r.Get("/about", handlerService.PlaceholderPage)
		r.Get("/privacy", handlerService.PlaceholderPage)
		r.Get("/terms", handlerService.PlaceholderPage)

		// UI API endpoints (fragments loaded by the pages)
		r.Get("/ui-api/home/stats", handlerService.HomeStats)
		r.Get("/ui-api/politicians", handlerService.PoliticianList)
		r.Get("/ui-api/politicians/{id}", handlerService.PoliticianDetail)
		r.Get("/ui-api/politicians/{id}/contributions", handlerService.PoliticianContributions)
		r.Get("/ui-api/bills", handlerService.BillList)
		r.Get("/ui-api/bills/{id}", handlerService.BillDetail)
		r.Get("/ui-api/votes", handlerService.VoteList)
		r.Get("/ui-api/votes/statistics", handlerService.VoteStatistics)
		r.Get("/ui-api/contributions", handlerService.ContributionList)
		r.Get("/ui-api/contributions/top", handlerService.TopContributors)
		r.Post("/ui-api/focus", handlerService.Focus)
	})

	s.router.NotFound(handlerService.NotFoundPage)
	return nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(60 * time.Second))
	s.router.Use(SecurityHeaders(s.config.Environment))
}

// Start runs the server until ctx is canceled, then shuts it down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("UI server listening",
			slog.String("address", addr),
			slog.String("api", s.config.APIBaseURL),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down UI server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
			return err
		}
	}

	return nil
}
