package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/quantmind-br/gamepass-catalog/internal/app"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the catalog directly from upstream",
	Long: `Fetches one catalog straight from the upstream services, without a
running API server, and prints it as a table or JSON.

Examples:
  gamepass fetch --platform pc --market US --language en-US
  gamepass fetch --platform eaplay -o eaplay.json`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd.Flags(), map[string]string{
			"market":            "gamepass.market",
			"language":          "gamepass.language",
			"timeout":           "upstream.timeout",
			"retries":           "upstream.max_retries",
			"batch-concurrency": "upstream.batch_concurrency",
		})
	},
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("platform", "all", "Platform: console, pc, cloud, eaplay or all")
	fetchCmd.Flags().String("market", "BR", "Market")
	fetchCmd.Flags().String("language", "pt-BR", "Language")
	fetchCmd.Flags().StringP("output", "o", "", "Write the games as JSON to this file")
	fetchCmd.Flags().Bool("json", false, "Print JSON instead of a table")
	fetchCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	fetchCmd.Flags().Duration("timeout", 0, "Per-request upstream timeout (default 10s)")
	fetchCmd.Flags().Int("retries", 0, "Retries for transient upstream failures")
	fetchCmd.Flags().Int("batch-concurrency", 1, "Detail batches fetched in parallel")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	rawPlatform, _ := cmd.Flags().GetString("platform")
	platform, err := domain.ParsePlatform(rawPlatform)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	asJSON, _ := cmd.Flags().GetBool("json")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	progress := &batchProgress{w: cmd.ErrOrStderr(), disabled: noProgress}

	deps, err := app.NewDependencies(app.DependencyOptions{
		Config:  cfg,
		Logger:  logger,
		OnBatch: progress.onBatch,
	})
	if err != nil {
		return fmt.Errorf("failed to create dependencies: %w", err)
	}
	defer deps.Close()

	svc, err := app.NewServiceFromDeps(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	opts := svc.ResolveOptions(domain.QueryOptions{Platform: platform})
	logger.Info().
		Str("platform", string(opts.Platform)).
		Str("market", opts.Market).
		Str("language", opts.Language).
		Msg("Fetching catalog")

	games, err := svc.GetAllGames(ctx, opts)
	progress.finish()
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}

	switch {
	case output != "":
		data, err := json.MarshalIndent(games, "", "  ")
		if err != nil {
			return err
		}
		if err := utils.WriteFile(output, data); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		logger.Info().Int("games", len(games)).Str("path", output).Msg("Catalog written")
	case asJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(games)
	default:
		renderCards(cmd.OutOrStdout(), games)
	}
	return nil
}

// commandContext returns the command context, or Background when unset
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// batchProgress draws one bar tick per detail batch. A cancelled fetch keeps
// running in the background, so ticks may arrive after finish; they are dropped.
type batchProgress struct {
	w        io.Writer
	disabled bool

	mu       sync.Mutex
	bar      *progressbar.ProgressBar
	finished bool
}

func (p *batchProgress) onBatch(_, total int) {
	if p.disabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	if p.bar == nil {
		p.bar = utils.NewProgressBarTo(p.w, total, utils.DescFetching)
	}
	_ = p.bar.Add(1)
}

func (p *batchProgress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
