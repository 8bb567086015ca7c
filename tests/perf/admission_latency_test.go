package perf

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/sluiceio/sluice/internal/randtext"
	"github.com/sluiceio/sluice/pkg/guard"
)

// Rejections log at error level, so even a quiet stderr handler would spill
// into benchmark output; all measurement runs use a discard sink.
func benchProcessor(b *testing.B, cfg guard.Config) *guard.Processor {
	b.Helper()
	proc, err := guard.New(cfg, guard.WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		b.Fatalf("Processor construction failed: %v", err)
	}
	return proc
}

// BenchmarkProcessor_AcceptedInput measures the full admission path for input
// that passes both stages.
func BenchmarkProcessor_AcceptedInput(b *testing.B) {
	proc := benchProcessor(b, guard.Config{})
	ctx := context.Background()
	input := "  Valid_Input 123  "

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		result := proc.Process(ctx, input)
		if !result.Accepted() {
			b.Fatalf("Expected acceptance, got %v", result.Err)
		}
	}
}

// BenchmarkProcessor_RejectedOversized measures the short-circuit path where
// the length filter rejects before the validator runs.
func BenchmarkProcessor_RejectedOversized(b *testing.B) {
	proc := benchProcessor(b, guard.Config{})
	ctx := context.Background()
	input := strings.Repeat("A", guard.DefaultMaxInputLength+10)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		result := proc.Process(ctx, input)
		if result.Accepted() {
			b.Fatal("Expected rejection")
		}
	}
}

// BenchmarkProcessor_RejectedInvalidCharacters measures the path through both
// stages ending in a validator rejection.
func BenchmarkProcessor_RejectedInvalidCharacters(b *testing.B) {
	proc := benchProcessor(b, guard.Config{})
	ctx := context.Background()
	input := "Invalid@Input#!"

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		result := proc.Process(ctx, input)
		if result.Accepted() {
			b.Fatal("Expected rejection")
		}
	}
}

// BenchmarkProcessor_MixedWorkload replays a pre-generated 90/10 valid/invalid
// mix, the same distribution the bench command uses.
func BenchmarkProcessor_MixedWorkload(b *testing.B) {
	proc := benchProcessor(b, guard.Config{})

	gen := randtext.New(42)
	inputs := make([]string, 1024)
	for i := range inputs {
		if gen.Float64() < 0.9 {
			inputs[i] = gen.Allowed(1 + gen.Intn(guard.DefaultMaxInputLength))
		} else {
			inputs[i] = gen.Tainted(1 + gen.Intn(guard.DefaultMaxInputLength+10))
		}
	}
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		proc.Process(ctx, inputs[i%len(inputs)])
	}
}

// BenchmarkRegistry_Resolve measures profile lookup overhead.
func BenchmarkRegistry_Resolve(b *testing.B) {
	registry := guard.GlobalRegistry()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, ok := registry.Resolve("standard"); !ok {
			b.Fatal("Profile resolution failed")
		}
	}
}
