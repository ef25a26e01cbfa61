package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/quantmind-br/gamepass-catalog/internal/app"
	"github.com/quantmind-br/gamepass-catalog/internal/config"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
)

// Catalog is the aggregation surface served over HTTP
type Catalog interface {
	GetAllGames(ctx context.Context, opts domain.QueryOptions) ([]domain.GameCard, error)
	GetGameByID(ctx context.Context, id string, opts domain.QueryOptions) (*domain.GameCard, error)
	SearchGames(ctx context.Context, query string, opts domain.QueryOptions) ([]domain.GameCard, error)
	ClearCache(ctx context.Context) error
	Stats() app.Stats
}

// Server is the HTTP façade over a Catalog
type Server struct {
	echo    *echo.Echo
	catalog Catalog
	cfg     config.ServerConfig
	logger  *utils.Logger
}

// Options contains options for creating a Server
type Options struct {
	Config  config.ServerConfig
	Catalog Catalog
	Logger  *utils.Logger
}

// New creates a Server with every route and middleware registered
func New(opts Options) (*Server, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		catalog: opts.Catalog,
		cfg:     opts.Config,
		logger:  logger.WithComponent("server"),
	}

	e.HTTPErrorHandler = s.handleError
	s.registerMiddleware()
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.health)

	api := s.echo.Group("/api/gamepass")
	api.GET("/games", s.listGames)
	api.GET("/games/:id", s.getGame)
	api.GET("/search", s.searchGames)
	api.POST("/refresh", s.refresh)
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on the configured port until ctx is done, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr()
	s.echo.Server.ReadTimeout = s.cfg.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.WriteTimeout

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info().
		Str("addr", addr).
		Str("environment", s.cfg.Environment).
		Msg("Server listening")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info().Dur("timeout", timeout).Msg("Shutting down")
	start := time.Now()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("Server stopped")
	return nil
}
