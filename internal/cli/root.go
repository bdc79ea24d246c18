package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/crime360/internal/app"
	"github.com/hyperjump/crime360/internal/config"
	"github.com/hyperjump/crime360/pkg/utils"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

const defaultConfigPath = "/usr/local/etc/crime360/config.yaml"

var (
	cfgFile    string
	debug      bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "crime360",
	Short: "Incident search and analytics over police case records",
	Long: `crime360 serves a read-only snapshot of incident reports and person profiles.

It offers substring search with structured filters, multi-key sorting and paging,
face similarity over stored feature vectors, and dashboard aggregations. Run it as
an HTTP server or use the subcommands for one-shot queries.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "crime360 %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(facesCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(importCmd)
}

// loadConfig reads path. For the default path it prefers ./config.yaml and falls back to
// built-in defaults when neither file exists.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			local := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(local); err == nil {
				return config.Load(local)
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return utils.NewLogger(debug || cfg.Debug, cfg.Logging.Level)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withRuntime builds a runtime from the configured seed, runs fn and releases it.
func withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *app.Runtime) error) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := commandContext(cmd)
	rt, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}
