package main

import (
	"fmt"
	"io"
	"os"

	"github.com/quantmind-br/gamepass-catalog/internal/config"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
	"github.com/spf13/cobra"
)

const redacted = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Prints the configuration after merging defaults, the config file and
environment variables. The refresh token is redacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return writeConfig(cmd.OutOrStdout(), cfg, true)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the default config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.ConfigFilePath())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigFilePath()
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		return initConfigFile(cmd.OutOrStdout(), path, force)
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

// writeConfig encodes cfg as YAML
func writeConfig(w io.Writer, cfg *config.Config, redact bool) error {
	out := *cfg
	if redact && out.Server.RefreshToken != "" {
		out.Server.RefreshToken = redacted
	}

	data, err := out.YAML()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func initConfigFile(w io.Writer, path string, force bool) error {
	path = utils.ExpandPath(path)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := config.Default().YAML()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := utils.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
