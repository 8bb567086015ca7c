package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sluiceio/sluice/internal/console"
	"github.com/sluiceio/sluice/pkg/config"
	"github.com/sluiceio/sluice/pkg/guard"
)

// newRunCmd creates the interactive console command.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive admission console",
		Long: `Reads requests from stdin, one per line, and prints each verdict.

When a configuration file is present it is watched for changes; updates are
applied between lines without restarting the session. SIGINT or SIGTERM ends
the session cleanly.`,
		RunE: runConsole,
	}
}

func runConsole(cmd *cobra.Command, _ []string) error {
	app, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer app.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			app.logger.Info("received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	shutdown := setupTelemetry(ctx, app.cfg, app.logger)
	defer func() { _ = shutdown(context.Background()) }()

	metrics := guard.NewMetrics()
	proc, err := guard.New(app.cfg.Guard,
		guard.WithLogger(app.logger),
		guard.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	app.logger.InfoContext(ctx, "sluice started",
		"limit", proc.Limit(),
		"pattern", proc.Pattern(),
		"config", app.cfgPath,
	)

	session := console.NewSession(proc, cmd.InOrStdin(), cmd.OutOrStdout(), app.logger)

	if app.cfgPath != "" {
		provider, err := config.NewProvider(app.cfgPath, app.logger)
		if err != nil {
			app.logger.Warn("config watch unavailable", "error", err.Error())
		} else {
			defer func() { _ = provider.Close() }()
			go watchConfig(ctx, provider, session, metrics, app)
		}
	}

	err = session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchConfig rebuilds the processor on every validated snapshot and swaps it
// into the running session. A snapshot that cannot build a processor is
// dropped; the session keeps its current one.
func watchConfig(ctx context.Context, provider *config.Provider, session *console.Session, metrics *guard.Metrics, app *app) {
	updates := provider.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			proc, err := guard.New(cfg.Guard,
				guard.WithLogger(app.logger),
				guard.WithMetrics(metrics),
			)
			if err != nil {
				app.logger.Error("rejecting configuration update", "error", err.Error())
				continue
			}
			session.Swap(proc)
			app.logger.Info("admission settings updated",
				"limit", proc.Limit(),
				"pattern", proc.Pattern(),
			)
		}
	}
}
