package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/orionhq/dashboard/internal/apiclient"
	"github.com/orionhq/dashboard/internal/apperrors"
	"github.com/orionhq/dashboard/internal/logger"
	"github.com/orionhq/dashboard/internal/middleware"
	"github.com/orionhq/dashboard/internal/response"
	"github.com/orionhq/dashboard/internal/ui/config"
	"github.com/orionhq/dashboard/internal/version"
)

const (
	// ServerShutdownTimeout is the timeout for graceful server shutdown
	ServerShutdownTimeout = 10 * time.Second
	ReadinessTimeout      = 2 * time.Second
)

type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	resolver *apiclient.Resolver
	admin    *apiclient.Admin
}

// UISettings is served to the browser so the frontend learns the API address from the server.
type UISettings struct {
	APIURL       string `json:"api_url"`
	DefaultLimit int    `json:"default_limit"`
	Version      string `json:"version"`
}

func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	resolver := apiclient.NewResolver(apiclient.Config{
		BaseAddress:  cfg.APIURL,
		Timeout:      cfg.APITimeout,
		DefaultLimit: cfg.DefaultLimit,
		Logger:       logger,
	})

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		resolver: resolver,
		admin:    apiclient.NewAdmin(resolver),
	}

	s.setupMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(60 * time.Second))
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
}

func (s *Server) registerRoutes() error {
	corsMiddleware, err := config.NewCORSMiddleware(s.config)
	if err != nil {
		return err
	}

	s.router.Get("/health/live", s.handleLiveness)
	s.router.Get("/health/ready", s.handleReadiness)

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.CORS(corsMiddleware))
		r.Get("/ui-settings", s.handleUISettings)
	})
	return nil
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReadiness reports whether the Orion API can be reached through the configured address.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
	defer cancel()

	if err := s.admin.Health(ctx); err != nil {
		logger.AddRequestAttrs(r.Context(),
			slog.String("api_url", s.resolver.BaseAddress()),
			slog.String("error", err.Error()),
		)

		var clientErr *apiclient.ClientError
		if errors.As(err, &clientErr) && clientErr.StatusCode != 0 {
			response.RespondWithError(w, r, http.StatusServiceUnavailable, apperrors.ErrCodeOrionAPIError, clientErr.UserError())
			return
		}
		response.RespondWithError(w, r, http.StatusServiceUnavailable, apperrors.ErrCodeOrionAPIUnavailable, "Orion API is not reachable")
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleUISettings(w http.ResponseWriter, r *http.Request) {
	response.RespondWithJSON(w, http.StatusOK, UISettings{
		APIURL:       s.resolver.BaseAddress(),
		DefaultLimit: s.config.DefaultLimit,
		Version:      version.Get().Version,
	})
}

// Start runs the server until ctx is cancelled, then shuts it down gracefully.
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
			slog.String("api_url", s.resolver.BaseAddress()),
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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ServerShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
			return err
		}
	}

	return nil
}
