// Package console implements the interactive admission loop behind the run
// command: read a line, process it, print the verdict.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/sluiceio/sluice/pkg/guard"
)

// Session reads lines from an input stream and pushes each one through the
// admission pipeline. The processor can be swapped between lines, which is
// how configuration hot-reload reaches a running session; any single line is
// always handled by exactly one processor snapshot.
type Session struct {
	proc   atomic.Pointer[guard.Processor]
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

// NewSession creates a session reading from in and printing verdicts to out.
func NewSession(proc *guard.Processor, in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		in:     in,
		out:    out,
		logger: logger,
	}
	s.proc.Store(proc)
	return s
}

// Swap replaces the processor used for subsequent lines.
func (s *Session) Swap(proc *guard.Processor) {
	if proc != nil {
		s.proc.Store(proc)
	}
}

// Run consumes input until EOF or context cancellation. A cancelled context
// returns its error; plain EOF returns nil.
func (s *Session) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	proc := s.proc.Load()
	s.logger.InfoContext(ctx, "interactive session started",
		"limit", proc.Limit(),
		"pattern", proc.Pattern(),
	)
	fmt.Fprintln(s.out, "sluice interactive mode: one request per line, EOF to exit")

	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				s.logger.InfoContext(ctx, "interactive session ended")
				return scanErr
			}
			s.handle(ctx, line)
		}
	}
}

func (s *Session) handle(ctx context.Context, line string) {
	result := s.proc.Load().Process(ctx, line)
	if result.Accepted() {
		fmt.Fprintf(s.out, "accepted: %q\n", result.Value)
		return
	}
	fmt.Fprintf(s.out, "rejected: %v\n", result.Err)
}
