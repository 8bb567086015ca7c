package e2e

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/sluiceio/sluice/pkg/guard"
	"github.com/sluiceio/sluice/pkg/telemetry"
)

// TestE2E_AdmissionTraceExport drives the real pipeline with the real OTLP
// exporter pointed at an in-process collector and verifies the exported spans.
func TestE2E_AdmissionTraceExport(t *testing.T) {
	collector, endpoint := startMockTraceCollector(t)

	ctx := context.Background()
	shutdown, err := telemetry.SetupProvider(ctx, telemetry.Config{
		ServiceName: "sluice-e2e",
		Endpoint:    endpoint,
		Environment: "test",
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("Failed to set up telemetry: %v", err)
	}

	proc, err := guard.New(guard.Config{}, guard.WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("Failed to build processor: %v", err)
	}

	accepted := proc.Process(ctx, "Valid_Input 123")
	rejected := proc.Process(ctx, "Invalid@Input#!")
	if !accepted.Accepted() || rejected.Accepted() {
		t.Fatalf("Unexpected pipeline verdicts: %+v / %+v", accepted, rejected)
	}

	// Shutdown flushes the batch exporter.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		t.Fatalf("Telemetry shutdown failed: %v", err)
	}

	waitCtx, cancelWait := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelWait()
	spans := collector.WaitForSpans(waitCtx, 2)
	if len(spans) < 2 {
		t.Fatalf("Expected 2 exported spans, got %d", len(spans))
	}

	for _, span := range spans {
		if span.Name != "guard.process" {
			t.Errorf("Unexpected span name %q", span.Name)
		}
	}

	acceptedSpan := findSpanByAttr(spans, "guard.request_id", accepted.RequestID)
	if acceptedSpan == nil {
		t.Fatalf("No span exported for accepted request %s", accepted.RequestID)
	}
	if outcome, _ := spanAttr(acceptedSpan, "guard.outcome"); outcome != "accepted" {
		t.Errorf("Expected accepted outcome attribute, got %q", outcome)
	}
	if hasEvent(acceptedSpan, "guard.rejection") {
		t.Error("Accepted span must not carry a rejection event")
	}

	rejectedSpan := findSpanByAttr(spans, "guard.request_id", rejected.RequestID)
	if rejectedSpan == nil {
		t.Fatalf("No span exported for rejected request %s", rejected.RequestID)
	}
	if outcome, _ := spanAttr(rejectedSpan, "guard.outcome"); outcome != "rejected" {
		t.Errorf("Expected rejected outcome attribute, got %q", outcome)
	}
	if kind, _ := spanAttr(rejectedSpan, "guard.rejection.kind"); kind != "invalid_characters" {
		t.Errorf("Expected invalid_characters kind attribute, got %q", kind)
	}
	if !hasEvent(rejectedSpan, "guard.rejection") {
		t.Error("Rejected span missing the rejection event")
	}
	if rejectedSpan.Status.GetCode() != tracepb.Status_STATUS_CODE_ERROR {
		t.Errorf("Expected error status on rejected span, got %v", rejectedSpan.Status.GetCode())
	}

	// Rejected content must never leave the process via telemetry.
	for _, span := range spans {
		for _, kv := range span.Attributes {
			if strings.Contains(kv.Value.GetStringValue(), "Invalid@Input#!") {
				t.Errorf("Span attribute %q leaks rejected content", kv.Key)
			}
		}
		for _, event := range span.Events {
			for _, kv := range event.Attributes {
				if strings.Contains(kv.Value.GetStringValue(), "Invalid@Input#!") {
					t.Errorf("Span event attribute %q leaks rejected content", kv.Key)
				}
			}
		}
	}
}
