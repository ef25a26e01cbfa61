package app

import (
	"fmt"

	"github.com/quantmind-br/gamepass-catalog/internal/cache"
	"github.com/quantmind-br/gamepass-catalog/internal/config"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/fetcher"
	"github.com/quantmind-br/gamepass-catalog/internal/upstream"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
)

// Dependencies contains the components wired behind the Service
type Dependencies struct {
	Fetcher domain.Fetcher
	Catalog *upstream.CatalogClient
	Details *upstream.DetailClient
	Store   domain.CatalogStore
	Logger  *utils.Logger
}

// DependencyOptions contains options for creating Dependencies
type DependencyOptions struct {
	Config *config.Config
	Logger *utils.Logger
	// Fetcher overrides the HTTP client built from Config
	Fetcher domain.Fetcher
	// OnBatch reports details batch progress
	OnBatch func(done, total int)
}

// NewDependencies builds the upstream clients and the cache store from config
func NewDependencies(opts DependencyOptions) (*Dependencies, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	}

	f := opts.Fetcher
	if f == nil {
		client, err := fetcher.NewClient(fetcher.ClientOptions{
			Timeout:    cfg.Upstream.Timeout,
			MaxRetries: cfg.Upstream.MaxRetries,
			UserAgent:  cfg.Upstream.UserAgent,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create fetcher: %w", err)
		}
		f = client
	}
	if cfg.Upstream.BreakerThreshold > 0 {
		f = fetcher.NewBreaker(f, fetcher.BreakerOptions{
			FailureThreshold: cfg.Upstream.BreakerThreshold,
			ResetTimeout:     cfg.Upstream.BreakerReset,
			Logger:           logger,
		})
	}

	store, err := NewStore(cfg.Cache.Backend)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	ids := cfg.GamePass.CatalogIDs
	return &Dependencies{
		Fetcher: f,
		Catalog: upstream.NewCatalogClient(upstream.CatalogClientOptions{
			Fetcher: f,
			BaseURL: cfg.Upstream.CatalogBaseURL,
			CatalogIDs: upstream.CatalogIDs{
				Console: ids.Console,
				PC:      ids.PC,
				EAPlay:  ids.EAPlay,
				All:     ids.All,
			},
			Logger: logger,
		}),
		Details: upstream.NewDetailClient(upstream.DetailClientOptions{
			Fetcher:     f,
			BaseURL:     cfg.Upstream.DisplayBaseURL,
			BatchSize:   cfg.Upstream.BatchSize,
			Concurrency: cfg.Upstream.BatchConcurrency,
			OnBatch:     opts.OnBatch,
			Logger:      logger,
		}),
		Store:  store,
		Logger: logger,
	}, nil
}

// NewStore creates the catalog store for a configured backend
func NewStore(backend string) (domain.CatalogStore, error) {
	switch backend {
	case "", config.CacheBackendMemory:
		return cache.NewMemoryStore(), nil
	case config.CacheBackendBadger:
		store, err := cache.NewBadgerStore()
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// NewServiceFromDeps creates a Service over deps
func NewServiceFromDeps(cfg *config.Config, deps *Dependencies) (*Service, error) {
	return NewService(ServiceOptions{
		Config:  cfg,
		Catalog: deps.Catalog,
		Details: deps.Details,
		Store:   deps.Store,
		Logger:  deps.Logger,
	})
}

// Close releases the fetcher and the store
func (d *Dependencies) Close() error {
	var errs []error
	if d.Store != nil {
		errs = append(errs, d.Store.Close())
	}
	if d.Fetcher != nil {
		errs = append(errs, d.Fetcher.Close())
	}
	return utils.FirstError(errs)
}
