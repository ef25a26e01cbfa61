package main

import (
	"fmt"
	"os"

	"github.com/quantmind-br/gamepass-catalog/internal/config"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
	"github.com/quantmind-br/gamepass-catalog/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gamepass",
	Short: "Xbox Game Pass catalog API and browser",
	Long: `gamepass serves the Xbox Game Pass catalog over a small JSON API.

The catalog is assembled from Microsoft's catalog and display-catalog
services, cached per platform, market and language, and can be browsed
from the terminal with filters, sorting and pagination.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gamepass/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: pretty or json")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// bindFlags binds a command's flags to config keys. It runs when the command
// starts so commands sharing a key do not override each other's binding.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig loads the configuration and creates the logger it describes
func loadConfig() (*config.Config, *utils.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})
	return cfg, logger, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
