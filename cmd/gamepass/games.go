package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantmind-br/gamepass-catalog/internal/client"
	"github.com/quantmind-br/gamepass-catalog/internal/config"
	"github.com/quantmind-br/gamepass-catalog/internal/fetcher"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
	"github.com/quantmind-br/gamepass-catalog/pkg/version"
	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Browse the catalog served by a running API",
	Long: `Loads the catalog from a running gamepass API and browses it locally.

Responses are cached on disk; when the API is unreachable a bundled sample
catalog is shown instead.

Examples:
  gamepass games --platform pc --sort az
  gamepass games --genre Shooter --min-score 80 --page 2
  gamepass games --query forza`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"base-url": "client.base_url",
			"market":   "client.market",
			"language": "client.language",
		})
	},
	RunE: runGames,
}

func init() {
	gamesCmd.Flags().String("platform", client.DefaultPlatform, "Platform: console, pc, cloud, eaplay or all")
	gamesCmd.Flags().StringP("query", "q", "", "Search the API by title instead of loading a platform")
	gamesCmd.Flags().StringP("search", "s", "", "Filter the loaded games by title")
	gamesCmd.Flags().String("genre", "", "Only games of this genre")
	gamesCmd.Flags().Int("min-score", 0, "Only games scoring at least this")
	gamesCmd.Flags().String("year", client.AllYears, "Only games released this year")
	gamesCmd.Flags().String("sort", string(client.SortScoreDesc), "Sort: score_desc, az or newest")
	gamesCmd.Flags().Int("page", 1, "Page number")
	gamesCmd.Flags().Int("per-page", client.ItemsPerPage, "Games per page")
	gamesCmd.Flags().Bool("json", false, "Print the page as JSON")
	gamesCmd.Flags().Bool("no-scores", false, "Skip review score lookups")
	gamesCmd.Flags().Bool("clear-cache", false, "Clear the local cache before loading")
	gamesCmd.Flags().String("base-url", config.DefaultClientBaseURL, "API base URL")
	gamesCmd.Flags().String("market", "", "Market (default from gamepass.market)")
	gamesCmd.Flags().String("language", "", "Language (default from gamepass.language)")
}

// browseFlags are the local filters of the games command
type browseFlags struct {
	platform   string
	query      string
	filter     client.Filter
	page       int
	perPage    int
	asJSON     bool
	noScores   bool
	clearFirst bool
}

func readBrowseFlags(cmd *cobra.Command) (browseFlags, error) {
	flags := cmd.Flags()
	var b browseFlags
	b.platform, _ = flags.GetString("platform")
	b.query, _ = flags.GetString("query")
	b.filter.Search, _ = flags.GetString("search")
	b.filter.Genre, _ = flags.GetString("genre")
	b.filter.MinScore, _ = flags.GetInt("min-score")
	b.filter.ReleaseYear, _ = flags.GetString("year")
	b.page, _ = flags.GetInt("page")
	b.perPage, _ = flags.GetInt("per-page")
	b.asJSON, _ = flags.GetBool("json")
	b.noScores, _ = flags.GetBool("no-scores")
	b.clearFirst, _ = flags.GetBool("clear-cache")

	rawSort, _ := flags.GetString("sort")
	sortBy, err := client.ParseSort(rawSort)
	if err != nil {
		return b, err
	}
	b.filter.Sort = sortBy
	return b, nil
}

func runGames(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	b, err := readBrowseFlags(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:   cfg.Client.Timeout,
		UserAgent: version.Get().UserAgent(),
	})
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer closeQuietly(logger, "fetcher", f)

	local, err := client.OpenLocalCache(cfg.Client.CacheDir, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(logger, "local cache", local)

	c, err := client.New(client.Options{
		BaseURL:     cfg.Client.BaseURL,
		Market:      cfg.Client.Market,
		Language:    cfg.Client.Language,
		TTL:         cfg.Client.TTL,
		FallbackTTL: cfg.Client.FallbackTTL,
		Fetcher:     f,
		Cache:       local,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if b.clearFirst {
		if err := c.ClearCache(ctx); err != nil {
			return fmt.Errorf("clear local cache: %w", err)
		}
	}

	var (
		games  []client.Game
		source string
	)
	if b.query != "" {
		games = c.Search(ctx, b.query)
		source = mutedStyle.Render(fmt.Sprintf("Search results for %q", b.query))
	} else {
		res, err := c.Games(ctx, b.platform)
		if err != nil {
			return err
		}
		games = res.Games
		source = sourceLine(res, time.Now())
	}

	if !b.noScores {
		games = c.WithScores(ctx, games)
	}
	page := client.Browse(games, b.filter, b.page, b.perPage)

	out := cmd.OutOrStdout()
	if b.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	renderPage(out, page)
	fmt.Fprintln(out, source)
	return nil
}

// closeQuietly releases c, logging failures
func closeQuietly(logger *utils.Logger, name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		logger.Debug().Err(err).Str("resource", name).Msg("Close failed")
	}
}
