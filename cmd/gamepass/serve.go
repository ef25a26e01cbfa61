package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/gamepass-catalog/internal/app"
	"github.com/quantmind-br/gamepass-catalog/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog HTTP API",
	Long: `Runs the HTTP API:

  GET  /health
  GET  /api/gamepass/games?platform=&market=&language=
  GET  /api/gamepass/games/:id?market=&language=
  GET  /api/gamepass/search?q=&market=&language=
  POST /api/gamepass/refresh   (Authorization: Bearer <refresh token>)`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"port":          "server.port",
			"env":           "server.environment",
			"cors-origin":   "server.cors_origin",
			"market":        "gamepass.market",
			"language":      "gamepass.language",
			"cache-backend": "cache.backend",
			"cache-ttl":     "cache.ttl",
			"breaker":       "upstream.breaker_threshold",
		})
	},
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 4000, "Listen port")
	serveCmd.Flags().String("env", "development", "Environment (production hides error details)")
	serveCmd.Flags().String("cors-origin", "http://localhost:5173", "Allowed CORS origin")
	serveCmd.Flags().String("market", "BR", "Default market")
	serveCmd.Flags().String("language", "pt-BR", "Default language")
	serveCmd.Flags().String("cache-backend", "memory", "Catalog cache backend: memory or badger")
	serveCmd.Flags().Duration("cache-ttl", 0, "Catalog cache TTL (default 1h)")
	serveCmd.Flags().Int("breaker", 0, "Consecutive upstream failures that open the circuit breaker (0 disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.NewDependencies(app.DependencyOptions{Config: cfg, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to create dependencies: %w", err)
	}
	defer deps.Close()

	svc, err := app.NewServiceFromDeps(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	srv, err := server.New(server.Options{
		Config:  cfg.Server,
		Catalog: svc,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if cfg.Server.RefreshToken == "" {
		logger.Warn().Msg("No refresh token configured, POST /api/gamepass/refresh is disabled")
	}
	logger.Info().
		Str("market", cfg.GamePass.Market).
		Str("language", cfg.GamePass.Language).
		Str("cache_backend", cfg.Cache.Backend).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("Starting Game Pass API")

	return srv.Run(ctx)
}
