// Package bench implements the sequential throughput harness for the
// admission pipeline.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sluiceio/sluice/internal/randtext"
	"github.com/sluiceio/sluice/pkg/guard"
)

const (
	// DefaultRequests is the number of inputs generated when unset.
	DefaultRequests = 10000
	// DefaultValidRatio is the share of inputs drawn from the allow-list.
	DefaultValidRatio = 0.9

	// Tainted inputs may overshoot the limit by this many characters, so the
	// invalid mix rejects through both pipeline stages.
	taintedExtra = 10
	// Only the first few rejections are sampled into the debug log.
	debugSamples = 5
)

// Options tune a benchmark run. Zero values select the defaults.
type Options struct {
	Requests   int
	ValidRatio float64
	MaxLength  int
	Seed       int64
}

// Report summarises one benchmark run.
type Report struct {
	Total     int
	Accepted  int
	Rejected  int
	Elapsed   time.Duration
	PerSecond float64
}

// Run generates opts.Requests inputs (opts.ValidRatio of them drawn from the
// allow-list alphabet, the rest tainted and possibly oversized) and pushes
// them through the full admission path sequentially, measuring wall-clock
// throughput. Per-request diagnostics are suppressed so the measurement is
// not dominated by sink I/O; the harness itself logs the run boundaries and
// samples the first rejections at debug level.
func Run(ctx context.Context, cfg guard.Config, logger *slog.Logger, opts Options) (Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}

	proc, err := guard.New(cfg, guard.WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		return Report{}, fmt.Errorf("bench: %w", err)
	}

	requests := opts.Requests
	if requests <= 0 {
		requests = DefaultRequests
	}
	ratio := opts.ValidRatio
	if ratio <= 0 || ratio > 1 {
		ratio = DefaultValidRatio
	}
	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = proc.Limit()
	}

	logger.InfoContext(ctx, "benchmark started",
		"requests", requests,
		"valid_ratio", ratio,
		"max_length", maxLength,
		"seed", opts.Seed,
	)

	gen := randtext.New(opts.Seed)
	inputs := make([]string, 0, requests)
	for i := 0; i < requests; i++ {
		if gen.Float64() < ratio {
			inputs = append(inputs, gen.Allowed(1+gen.Intn(maxLength)))
		} else {
			inputs = append(inputs, gen.Tainted(1+gen.Intn(maxLength+taintedExtra)))
		}
	}

	start := time.Now()
	accepted, rejected := 0, 0
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		result := proc.Process(ctx, input)
		if result.Accepted() {
			accepted++
			continue
		}
		rejected++
		if rejected <= debugSamples {
			// Harness inputs are self-generated, safe to echo.
			logger.DebugContext(ctx, "sample rejection",
				"input", input,
				"kind", string(result.Kind),
			)
		}
	}
	elapsed := time.Since(start)

	report := Report{
		Total:     requests,
		Accepted:  accepted,
		Rejected:  rejected,
		Elapsed:   elapsed,
		PerSecond: float64(requests) / elapsed.Seconds(),
	}

	logger.InfoContext(ctx, "benchmark finished",
		"total", report.Total,
		"accepted", report.Accepted,
		"rejected", report.Rejected,
		"elapsed", report.Elapsed.String(),
		"per_second", fmt.Sprintf("%.2f", report.PerSecond),
	)

	return report, nil
}

// String renders the report for console output.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "requests:   %d\n", r.Total)
	fmt.Fprintf(&b, "accepted:   %d (%.1f%%)\n", r.Accepted, percent(r.Accepted, r.Total))
	fmt.Fprintf(&b, "rejected:   %d (%.1f%%)\n", r.Rejected, percent(r.Rejected, r.Total))
	fmt.Fprintf(&b, "elapsed:    %s\n", r.Elapsed)
	fmt.Fprintf(&b, "throughput: %.2f req/s", r.PerSecond)
	return b.String()
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
