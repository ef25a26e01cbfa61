package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
)

// DefaultPlatform is requested when no platform is given
const DefaultPlatform = "console"

// scoreWorkers bounds concurrent score lookups
const scoreWorkers = 8

// Client consumes the catalog HTTP API with a local persistent cache and
// bundled sample data as a last resort
type Client struct {
	fetcher     domain.Fetcher
	cache       *LocalCache
	scores      ScoreProvider
	baseURL     string
	market      string
	language    string
	ttl         time.Duration
	fallbackTTL time.Duration
	logger      *utils.Logger
}

// Options contains options for creating a Client
type Options struct {
	BaseURL     string
	Market      string
	Language    string
	TTL         time.Duration
	FallbackTTL time.Duration
	Fetcher     domain.Fetcher
	Cache       *LocalCache
	// Scores defaults to StaticScores
	Scores ScoreProvider
	Logger *utils.Logger
}

// Result is the outcome of a catalog load
type Result struct {
	Games []Game
	// FromCache is set when the games came from the local cache
	FromCache bool
	// AgeMinutes is the local cache entry age when FromCache is set
	AgeMinutes int
	// Fallback is set when the API failed and sample data was served
	Fallback bool
}

// New creates a Client
func New(opts Options) (*Client, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("local cache is required")
	}
	baseURL, err := utils.NormalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	scores := opts.Scores
	if scores == nil {
		scores = StaticScores{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	fallbackTTL := opts.FallbackTTL
	if fallbackTTL <= 0 {
		fallbackTTL = 5 * time.Minute
	}

	return &Client{
		fetcher:     opts.Fetcher,
		cache:       opts.Cache,
		scores:      scores,
		baseURL:     baseURL,
		market:      opts.Market,
		language:    opts.Language,
		ttl:         ttl,
		fallbackTTL: fallbackTTL,
		logger:      logger.WithComponent("client"),
	}, nil
}

func gamesKey(platform string) string {
	return "games_" + platform
}

// Games loads the catalog of a platform: from the local cache when fresh,
// else from the API, else from the bundled sample data. Only a failure to
// load the sample data is returned as an error.
func (c *Client) Games(ctx context.Context, platform string) (*Result, error) {
	if platform == "" {
		platform = DefaultPlatform
	}
	key := gamesKey(platform)

	var cached []Game
	if c.cache.Get(ctx, key, &cached) {
		age, _ := c.cache.Age(ctx, key)
		c.logger.Debug().Str("key", key).Int("age_minutes", age).Msg("Using cached games")
		return &Result{Games: cached, FromCache: true, AgeMinutes: age}, nil
	}

	games, err := c.fetchGames(ctx, platform)
	if err == nil {
		if err := c.cache.Set(ctx, key, games, c.ttl); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache games")
		}
		c.logger.Debug().Int("count", len(games)).Msg("Cached games")
		return &Result{Games: games}, nil
	}

	c.logger.Warn().Err(err).Msg("API unavailable, using sample data")
	games, sampleErr := SampleGames()
	if sampleErr != nil {
		return nil, fmt.Errorf("load sample games: %w (api: %v)", sampleErr, err)
	}
	if err := c.cache.Set(ctx, key, games, c.fallbackTTL); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache sample games")
	}
	return &Result{Games: games, Fallback: true}, nil
}

// Search returns the games whose title matches q. Any failure yields an
// empty list.
func (c *Client) Search(ctx context.Context, q string) []Game {
	query := c.scope()
	query.Set("q", q)

	var body struct {
		Games []domain.GameCard `json:"games"`
	}
	if err := c.getJSON(ctx, "/api/gamepass/search", query, &body); err != nil {
		c.logger.Warn().Err(err).Str("query", q).Msg("Search failed")
		return []Game{}
	}
	return fromCards(body.Games)
}

// ClearCache removes every locally cached response
func (c *Client) ClearCache(ctx context.Context) error {
	if err := c.cache.ClearAll(ctx); err != nil {
		return err
	}
	c.logger.Debug().Msg("Local cache cleared")
	return nil
}

// WithScores returns a copy of games with review scores attached. Each
// lookup is independent: a failed one marks only its game as not found,
// and games left unscored by cancellation stay loading.
func (c *Client) WithScores(ctx context.Context, games []Game) []Game {
	scored := make([]Game, len(games))
	indexes := make([]int, len(games))
	for i, g := range games {
		g.Score = &Score{Status: ScoreLoading}
		scored[i] = g
		indexes[i] = i
	}

	errs := utils.ParallelForEach(ctx, indexes, scoreWorkers, func(ctx context.Context, i int) error {
		score, err := c.scores.Score(ctx, scored[i].Title)
		if err != nil {
			c.logger.Debug().Err(err).Str("title", scored[i].Title).Msg("Score lookup failed")
			scored[i].Score = &Score{Status: ScoreNotFound}
			return err
		}
		scored[i].Score = &score
		return nil
	})

	if failed := utils.CollectErrors(errs); len(failed) > 0 {
		c.logger.Debug().Int("failed", len(failed)).Int("games", len(games)).Msg("Some score lookups failed")
	}
	return scored
}

func (c *Client) fetchGames(ctx context.Context, platform string) ([]Game, error) {
	query := c.scope()
	query.Set("platform", platform)

	var body struct {
		Games []domain.GameCard `json:"games"`
	}
	if err := c.getJSON(ctx, "/api/gamepass/games", query, &body); err != nil {
		return nil, err
	}
	if body.Games == nil {
		return nil, fmt.Errorf("response has no games")
	}
	return fromCards(body.Games), nil
}

func (c *Client) scope() url.Values {
	q := url.Values{}
	if c.market != "" {
		q.Set("market", c.market)
	}
	if c.language != "" {
		q.Set("language", c.language)
	}
	return q
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	target := utils.JoinURL(c.baseURL, path, query)
	resp, err := c.fetcher.Get(ctx, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, dst); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}
