package console

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sluiceio/sluice/pkg/guard"
)

func newTestProcessor(t *testing.T, cfg guard.Config) *guard.Processor {
	t.Helper()
	proc, err := guard.New(cfg, guard.WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("failed to build processor: %v", err)
	}
	return proc
}

func TestSession_PrintsVerdictPerLine(t *testing.T) {
	proc := newTestProcessor(t, guard.Config{})
	in := strings.NewReader("  Hello World  \nInvalid@Input#!\n")
	var out strings.Builder

	session := NewSession(proc, in, &out, slog.New(slog.DiscardHandler))
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("session returned error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, `accepted: "Hello World"`) {
		t.Errorf("missing acceptance verdict in output:\n%s", got)
	}
	if !strings.Contains(got, "rejected:") {
		t.Errorf("missing rejection verdict in output:\n%s", got)
	}
}

func TestSession_EOFEndsCleanly(t *testing.T) {
	proc := newTestProcessor(t, guard.Config{})
	session := NewSession(proc, strings.NewReader(""), &strings.Builder{}, slog.New(slog.DiscardHandler))

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("expected nil on EOF, got %v", err)
	}
}

func TestSession_ContextCancellationStopsRun(t *testing.T) {
	proc := newTestProcessor(t, guard.Config{})

	// A reader that never delivers a line keeps the session waiting on input.
	blocked := make(chan struct{})
	session := NewSession(proc, blockingReader{unblock: blocked}, &strings.Builder{}, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop on cancellation")
	}
	close(blocked)
}

func TestSession_SwapChangesSubsequentVerdicts(t *testing.T) {
	lenient := newTestProcessor(t, guard.Config{MaxInputLength: 25})
	strict := newTestProcessor(t, guard.Config{MaxInputLength: 3})

	in := strings.NewReader("abcdef\n")
	var out strings.Builder
	session := NewSession(lenient, in, &out, slog.New(slog.DiscardHandler))
	session.Swap(strict)

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("session returned error: %v", err)
	}
	if !strings.Contains(out.String(), "rejected:") {
		t.Errorf("expected the swapped-in limit to reject, got:\n%s", out.String())
	}
}

// blockingReader blocks Read until unblock closes, then reports EOF.
type blockingReader struct {
	unblock chan struct{}
}

func (r blockingReader) Read([]byte) (int, error) {
	<-r.unblock
	return 0, io.EOF
}
