package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sluiceio/sluice/internal/bench"
)

// newBenchCmd creates the throughput benchmark command.
func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure admission pipeline throughput",
		Long: `Generates a mixed workload (valid inputs drawn from the allow-list
alphabet, the rest tainted and possibly oversized) and reports wall-clock
throughput of the full admission path.

A fixed --seed reproduces the exact same workload.`,
		RunE: runBench,
	}

	cmd.Flags().IntP("requests", "n", bench.DefaultRequests, "Number of requests to generate")
	cmd.Flags().Float64("valid-ratio", bench.DefaultValidRatio, "Share of inputs drawn from the allow-list")
	cmd.Flags().Int64("seed", 0, "Workload seed (0 derives one from the clock)")

	return cmd
}

func runBench(cmd *cobra.Command, _ []string) error {
	app, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer app.close()

	ctx := cmd.Context()
	shutdown := setupTelemetry(ctx, app.cfg, app.logger)
	defer func() { _ = shutdown(context.Background()) }()

	requests, err := cmd.Flags().GetInt("requests")
	if err != nil {
		return fmt.Errorf("failed to get requests flag: %w", err)
	}
	ratio, err := cmd.Flags().GetFloat64("valid-ratio")
	if err != nil {
		return fmt.Errorf("failed to get valid-ratio flag: %w", err)
	}
	seed, err := cmd.Flags().GetInt64("seed")
	if err != nil {
		return fmt.Errorf("failed to get seed flag: %w", err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	report, err := bench.Run(ctx, app.cfg.Guard, app.logger, bench.Options{
		Requests:   requests,
		ValidRatio: ratio,
		Seed:       seed,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.String())
	return nil
}
