package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/quantmind-br/gamepass-catalog/internal/config"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/mapper"
	"github.com/quantmind-br/gamepass-catalog/internal/upstream"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
	"golang.org/x/sync/singleflight"
)

// CatalogLister lists the product identifiers of a catalog
type CatalogLister interface {
	ListIDs(ctx context.Context, opts domain.QueryOptions) ([]string, error)
}

// DetailsFetcher fetches product details in batches
type DetailsFetcher interface {
	FetchDetails(ctx context.Context, ids []string, opts domain.QueryOptions) *upstream.BatchResult
}

// Service aggregates the upstream catalog into cached game cards
type Service struct {
	defaults domain.Defaults
	ttl      time.Duration
	catalog  CatalogLister
	details  DetailsFetcher
	store    domain.CatalogStore
	logger   *utils.Logger
	now      func() time.Time

	flights    singleflight.Group
	generation atomic.Uint64
}

// ServiceOptions contains options for creating a Service
type ServiceOptions struct {
	Config  *config.Config
	Catalog CatalogLister
	Details DetailsFetcher
	Store   domain.CatalogStore
	Logger  *utils.Logger
	// Now defaults to time.Now
	Now func() time.Time
}

// Stats describes the cache state
type Stats struct {
	Entries int           `json:"entries"`
	TTL     time.Duration `json:"ttl"`
}

// NewService creates a new aggregation service
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Catalog == nil || opts.Details == nil {
		return nil, fmt.Errorf("catalog and details clients are required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("cache store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		defaults: opts.Config.GamePass.Defaults(),
		ttl:      opts.Config.Cache.TTL,
		catalog:  opts.Catalog,
		details:  opts.Details,
		store:    opts.Store,
		logger:   logger.WithComponent("service"),
		now:      now,
	}, nil
}

// ResolveOptions fills every empty field of partial with its default
func (s *Service) ResolveOptions(partial domain.QueryOptions) domain.QueryOptions {
	return domain.ResolveOptions(partial, s.defaults)
}

// GetAllGames returns every game of the catalog selected by opts, from cache
// when a fresh entry exists. Concurrent misses on one key share one fetch.
func (s *Service) GetAllGames(ctx context.Context, partial domain.QueryOptions) ([]domain.GameCard, error) {
	opts := s.ResolveOptions(partial)
	key := opts.Key()
	logger := s.logger.WithCacheKey(key)

	if games, ok := s.cached(ctx, key, logger); ok {
		logger.Debug().Int("count", len(games)).Msg("Returning cached games")
		return games, nil
	}

	gen := s.generation.Load()
	flightKey := key + "#" + strconv.FormatUint(gen, 10)

	// The fetch outlives a cancelled caller so that other waiters still get it
	ch := s.flights.DoChan(flightKey, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if games, ok := s.cached(fetchCtx, key, logger); ok {
			return games, nil
		}
		return s.refresh(fetchCtx, key, gen, opts, logger)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.GameCard), nil
	}
}

// cached returns the games of a fresh entry under key
func (s *Service) cached(ctx context.Context, key string, logger *utils.Logger) ([]domain.GameCard, bool) {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("Cache read failed")
		}
		return nil, false
	}
	if !entry.IsValid(s.now(), s.ttl) {
		logger.Debug().Dur("age", entry.Age(s.now())).Msg("Cache entry expired")
		return nil, false
	}
	return entry.Games, true
}

// refresh fetches the catalog from upstream and stores it under key unless
// the cache was cleared since gen was read
func (s *Service) refresh(ctx context.Context, key string, gen uint64, opts domain.QueryOptions, logger *utils.Logger) ([]domain.GameCard, error) {
	start := s.now()
	logger.Info().
		Str("platform", string(opts.Platform)).
		Str("market", opts.Market).
		Str("language", opts.Language).
		Msg("Cache miss, fetching catalog")

	ids, err := s.catalog.ListIDs(ctx, opts)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch catalog IDs")
		return nil, fmt.Errorf("list catalog ids: %w", err)
	}

	result := s.details.FetchDetails(ctx, ids, opts)
	if result.Partial() {
		logger.Warn().
			Int("failed_batches", len(result.Failed)).
			Int("batches", result.Batches).
			Msg("Some detail batches failed, serving partial catalog")
	}

	games := mapper.ToGameCards(result.Products)

	if s.generation.Load() == gen {
		entry := &domain.CacheEntry{Timestamp: s.now(), Games: games}
		if err := s.store.Put(ctx, key, entry); err != nil {
			logger.Warn().Err(err).Msg("Failed to store catalog in cache")
		}
	}

	logger.Info().
		Int("ids", len(ids)).
		Int("games", len(games)).
		Dur("duration", s.now().Sub(start)).
		Msg("Catalog fetched")
	return games, nil
}

// GetGameByID returns the game with the given id, or nil when the catalog
// does not contain it
func (s *Service) GetGameByID(ctx context.Context, id string, partial domain.QueryOptions) (*domain.GameCard, error) {
	games, err := s.GetAllGames(ctx, partial)
	if err != nil {
		return nil, err
	}
	for i := range games {
		if games[i].ID == id {
			game := games[i]
			return &game, nil
		}
	}
	return nil, nil
}

// SearchGames returns the games whose title contains query, ignoring case.
// An empty query matches every game.
func (s *Service) SearchGames(ctx context.Context, query string, partial domain.QueryOptions) ([]domain.GameCard, error) {
	games, err := s.GetAllGames(ctx, partial)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matches := make([]domain.GameCard, 0, len(games))
	for _, g := range games {
		if strings.Contains(strings.ToLower(g.Title), q) {
			matches = append(matches, g)
		}
	}
	return matches, nil
}

// ClearCache drops every cached catalog. Fetches already in flight are not
// stored.
func (s *Service) ClearCache(ctx context.Context) error {
	s.generation.Add(1)
	if err := s.store.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	s.logger.Info().Msg("Cache cleared")
	return nil
}

// Stats returns the current cache state
func (s *Service) Stats() Stats {
	return Stats{Entries: s.store.Len(), TTL: s.ttl}
}
