package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/creatorscore/internal/config"
	"github.com/okian/creatorscore/pkg/logger"
	"github.com/spf13/cobra"
)

// Global flags.
var (
	configPath string
	logLevel   string
)

// Loaded by the root command before any subcommand runs.
var (
	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "creatorscore",
	Short: "Compare a creator's score with their coin's market cap",
	Long: `creatorscore looks up a creator's reputation score and creator-coin
market cap, classifies their ratio and answers what-if questions about it.

Run without a subcommand to start the HTTP server.

Examples:
  creatorscore
  creatorscore analyze --fid 6730
  creatorscore simulate --valuation 2500000 --score 155 --hypothetical 800
  creatorscore smoke --url http://localhost:9080`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (overrides "+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// setup initializes logging and loads configuration (defaults -> optional file -> env).
func setup(cmd *cobra.Command, _ []string) error {
	// Logs go to stderr so command output on stdout stays machine-readable.
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	log = logger.Get()

	if configPath != "" {
		if err := os.Setenv(config.EnvConfigFile, configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}

	var err error
	cfg, err = config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
