package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	metricsOnce         sync.Once
	metricsInitErr      error
	requestCounter      metric.Int64Counter
	rejectionCounter    metric.Int64Counter
	latencyHistogram    metric.Float64Histogram
	inputCharsHistogram metric.Int64Histogram
)

// ProcessMetrics captures the fields needed to record admission telemetry.
// Outcome and Kind travel as plain strings so this package stays free of
// pipeline types.
type ProcessMetrics struct {
	Outcome    string
	Kind       string
	InputChars int
	Duration   time.Duration
}

// RecordProcess emits counters and histograms describing one admission request.
func RecordProcess(ctx context.Context, metrics ProcessMetrics) {
	if err := ensureMetrics(); err != nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("guard.outcome", metrics.Outcome),
	}
	if metrics.Kind != "" {
		attrs = append(attrs, attribute.String("guard.rejection.kind", metrics.Kind))
	}

	requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	inputCharsHistogram.Record(ctx, int64(metrics.InputChars), metric.WithAttributes(attrs...))

	if metrics.Duration > 0 {
		latencyHistogram.Record(ctx, float64(metrics.Duration)/float64(time.Millisecond), metric.WithAttributes(attrs...))
	}

	if metrics.Kind != "" {
		rejectionCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func ensureMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("sluice.guard")

		requestCounter, metricsInitErr = meter.Int64Counter(
			"sluice.requests_total",
			metric.WithDescription("Admission requests partitioned by outcome"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		rejectionCounter, metricsInitErr = meter.Int64Counter(
			"sluice.rejections_total",
			metric.WithDescription("Rejected admission requests partitioned by kind"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		latencyHistogram, metricsInitErr = meter.Float64Histogram(
			"sluice.process.duration_ms",
			metric.WithDescription("Observed admission request latency"),
			metric.WithUnit("ms"),
		)
		if metricsInitErr != nil {
			return
		}

		inputCharsHistogram, metricsInitErr = meter.Int64Histogram(
			"sluice.input.chars",
			metric.WithDescription("Raw input length in Unicode characters, counted before trimming"),
			metric.WithUnit("{char}"),
		)
	})

	return metricsInitErr
}

// RecordRejection attaches a coarse-grained rejection event to the provided span
// without leaking the rejected content.
func RecordRejection(span trace.Span, kind string, limit int) {
	if span == nil || !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("guard.rejected", true),
		attribute.Int("guard.limit", limit),
	}

	if kind != "" {
		attrs = append(attrs, attribute.String("guard.rejection.kind", kind))
	}

	span.AddEvent("guard.rejection", trace.WithAttributes(attrs...))
}
