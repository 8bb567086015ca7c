package main

import (
	"bufio"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sluiceio/sluice/pkg/guard"
)

// newCheckCmd creates the one-shot validation command.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [text ...]",
		Short: "Validate inputs and print the sanitized values",
		Long: `Runs each argument through the admission pipeline and prints the verdict.
With no arguments, inputs are read from stdin, one per line.

Exits non-zero when any input is rejected.`,
		SilenceUsage: true,
		RunE:         runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	app, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer app.close()

	ctx := cmd.Context()
	shutdown := setupTelemetry(ctx, app.cfg, app.logger)
	defer func() { _ = shutdown(context.Background()) }()

	proc, err := guard.New(app.cfg.Guard,
		guard.WithLogger(app.logger),
		guard.WithMetrics(guard.NewMetrics()),
	)
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			inputs = append(inputs, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	rejected := 0
	for _, input := range inputs {
		result := proc.Process(ctx, input)
		if result.Accepted() {
			fmt.Fprintf(cmd.OutOrStdout(), "accepted: %q\n", result.Value)
		} else {
			rejected++
			fmt.Fprintf(cmd.OutOrStdout(), "rejected: %v\n", result.Err)
		}
	}

	if rejected > 0 {
		return fmt.Errorf("%d of %d inputs rejected", rejected, len(inputs))
	}
	return nil
}
