package e2e

import (
	"context"
	"net"
	"sync"
	"testing"

	collectortrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"google.golang.org/grpc"
)

// mockTraceCollector is an in-process OTLP trace receiver. Tests point the
// real exporter at it and assert on the spans that arrive.
type mockTraceCollector struct {
	collectortrace.UnimplementedTraceServiceServer

	t      *testing.T
	mu     sync.Mutex
	spans  []*tracepb.Span
	notify chan struct{}
}

func startMockTraceCollector(t *testing.T) (*mockTraceCollector, string) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start OTLP listener: %v", err)
	}

	collector := &mockTraceCollector{
		notify: make(chan struct{}, 1),
		t:      t,
	}

	server := grpc.NewServer()
	collectortrace.RegisterTraceServiceServer(server, collector)

	go func() {
		_ = server.Serve(lis)
	}()

	t.Cleanup(func() {
		server.Stop()
		_ = lis.Close()
	})

	return collector, lis.Addr().String()
}

func (m *mockTraceCollector) Export(_ context.Context, req *collectortrace.ExportTraceServiceRequest) (*collectortrace.ExportTraceServiceResponse, error) {
	received := 0
	m.mu.Lock()
	for _, rs := range req.ResourceSpans {
		for _, scope := range rs.ScopeSpans {
			m.spans = append(m.spans, scope.Spans...)
			received += len(scope.Spans)
		}
	}
	m.mu.Unlock()

	if m.t != nil {
		m.t.Logf("received %d spans", received)
	}

	select {
	case m.notify <- struct{}{}:
	default:
	}

	return &collectortrace.ExportTraceServiceResponse{}, nil
}

// WaitForSpans blocks until at least minSpans spans have arrived or ctx
// expires; it returns whatever has been collected either way.
func (m *mockTraceCollector) WaitForSpans(ctx context.Context, minSpans int) []*tracepb.Span {
	for {
		m.mu.Lock()
		if len(m.spans) >= minSpans {
			spans := append([]*tracepb.Span(nil), m.spans...)
			m.mu.Unlock()
			return spans
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			m.mu.Lock()
			spans := append([]*tracepb.Span(nil), m.spans...)
			m.mu.Unlock()
			return spans
		case <-m.notify:
		}
	}
}

// spanAttr returns the string value of the named attribute, if present.
func spanAttr(span *tracepb.Span, key string) (string, bool) {
	for _, kv := range span.Attributes {
		if kv.Key == key {
			return kv.Value.GetStringValue(), true
		}
	}
	return "", false
}

// findSpanByAttr returns the first span whose attribute key holds value.
func findSpanByAttr(spans []*tracepb.Span, key, value string) *tracepb.Span {
	for _, span := range spans {
		if got, ok := spanAttr(span, key); ok && got == value {
			return span
		}
	}
	return nil
}

// hasEvent reports whether the span carries an event with the given name.
func hasEvent(span *tracepb.Span, name string) bool {
	for _, event := range span.Events {
		if event.Name == name {
			return true
		}
	}
	return false
}
