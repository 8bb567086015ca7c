// Package main is the entry point for the sluice binary.
// It provides a CLI around the input admission pipeline: one-shot checks,
// an interactive console, a throughput benchmark and profile listing.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sluiceio/sluice/pkg/config"
	"github.com/sluiceio/sluice/pkg/logging"
	"github.com/sluiceio/sluice/pkg/telemetry"
)

const serviceName = "sluice"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command for sluice.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sluice",
		Short: "Admission control for untrusted text input",
		Long: `sluice guards downstream systems from untrusted text input.

Every request passes a two-stage pipeline: a length filter (raw length
checked before trimming, edge whitespace removed) followed by an anchored
allow-list validator. The first failing stage rejects the request.

Example:
  sluice check "Valid_Input 123"
  sluice run --config sluice.yaml
  sluice bench --requests 50000 --seed 7`,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (YAML)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-dir", "", "Directory for rotated diagnostic files")
	rootCmd.PersistentFlags().Bool("pretty", false, "Enable pretty console logging")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newBenchCmd())
	rootCmd.AddCommand(newProfilesCmd())

	return rootCmd
}

// app bundles what every subcommand needs after bootstrap.
type app struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	closeLog func() error
}

// bootstrap loads .env, the config file, flag overrides, and builds the
// process logger. Flags win over environment, environment wins over file.
func bootstrap(cmd *cobra.Command) (*app, error) {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	configFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfgPath := config.LookupPath(configFlag)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if val, err := cmd.Flags().GetString("log-level"); err == nil && val != "" {
		cfg.Logging.Level = val
	}
	if val, err := cmd.Flags().GetString("log-dir"); err == nil && val != "" {
		cfg.Logging.Directory = val
	}
	if val, err := cmd.Flags().GetBool("pretty"); err == nil && val {
		cfg.Logging.Pretty = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logger, closeLog, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return &app{
		cfg:      cfg,
		cfgPath:  cfgPath,
		logger:   logger,
		closeLog: closeLog,
	}, nil
}

func (a *app) close() {
	if err := a.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: closing diagnostic sink: %v\n", err)
	}
}

// setupTelemetry wires the OTLP exporter when an endpoint is configured.
// Export problems never stop the pipeline; the returned shutdown func is
// always safe to call.
func setupTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) func(context.Context) error {
	shutdown, err := telemetry.SetupProvider(ctx, telemetry.Config{
		ServiceName: serviceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Environment: cfg.Telemetry.Environment,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		logger.Warn("telemetry setup failed, continuing without export", "error", err.Error())
		return func(context.Context) error { return nil }
	}
	return shutdown
}
