package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sluiceio/sluice/pkg/telemetry"
)

// Outcome labels the terminal state of one admission request.
type Outcome string

const (
	// OutcomeAccepted marks input that passed both pipeline stages.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRejected marks input refused by either stage.
	OutcomeRejected Outcome = "rejected"
)

// RejectionKind identifies which contract a rejected input violated.
type RejectionKind string

const (
	// KindLengthExceeded marks rejection by the length filter.
	KindLengthExceeded RejectionKind = "length_exceeded"
	// KindInvalidCharacters marks rejection by the allow-list validator.
	KindInvalidCharacters RejectionKind = "invalid_characters"
)

// Config bundles the tunable admission settings for a Processor. A custom
// Pattern overrides Profile; when both are empty the standard profile is used.
type Config struct {
	MaxInputLength int    `yaml:"max_input_length" json:"max_input_length"`
	Profile        string `yaml:"profile" json:"profile"`
	Pattern        string `yaml:"pattern" json:"pattern"`
}

// Validate checks the configuration without constructing a Processor.
// Profiles are resolved against the global registry.
func (c Config) Validate() error {
	if c.MaxInputLength < 0 {
		return fmt.Errorf("guard: max input length must be positive, got %d", c.MaxInputLength)
	}

	if pattern := strings.TrimSpace(c.Pattern); pattern != "" {
		_, err := NewValidator(pattern)
		return err
	}

	name := c.Profile
	if name == "" {
		name = DefaultProfile
	}
	if _, ok := GlobalRegistry().Resolve(name); !ok {
		return fmt.Errorf("guard: unknown profile %q", name)
	}
	return nil
}

// Result reports the terminal state of one admission request. Accepted
// results carry the sanitized value; rejected results carry the rejection
// kind and the underlying error while Value stays empty.
type Result struct {
	RequestID string
	Outcome   Outcome
	Value     string
	Kind      RejectionKind
	Err       error
}

// Accepted reports whether the input passed both stages.
func (r Result) Accepted() bool {
	return r.Outcome == OutcomeAccepted
}

// Processor orchestrates the filter and validator stages. Configuration is
// fixed at construction; a running processor never changes behaviour.
type Processor struct {
	filter    *Filter
	validator *Validator
	logger    *slog.Logger
	metrics   *Metrics
}

// Option customises Processor construction.
type Option func(*Processor)

// WithLogger sets the diagnostic sink. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics attaches a prometheus metrics set to the processor.
func WithMetrics(metrics *Metrics) Option {
	return func(p *Processor) {
		p.metrics = metrics
	}
}

// New constructs a Processor from cfg, resolving profiles against the global
// registry.
func New(cfg Config, opts ...Option) (*Processor, error) {
	return NewWithRegistry(cfg, GlobalRegistry(), opts...)
}

// NewWithRegistry constructs a Processor resolving profiles against a custom
// registry (mainly for tests).
func NewWithRegistry(cfg Config, registry *Registry, opts ...Option) (*Processor, error) {
	if registry == nil {
		registry = GlobalRegistry()
	}

	filter, err := NewFilter(cfg.MaxInputLength)
	if err != nil {
		return nil, err
	}

	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		name := cfg.Profile
		if name == "" {
			name = DefaultProfile
		}
		profile, ok := registry.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("guard: unknown profile %q", name)
		}
		pattern = profile.Pattern
	}

	validator, err := NewValidator(pattern)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		filter:    filter,
		validator: validator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Limit returns the length ceiling enforced by the filter stage.
func (p *Processor) Limit() int {
	return p.filter.Limit()
}

// Pattern returns the allow-list pattern enforced by the validator stage.
func (p *Processor) Pattern() string {
	return p.validator.Pattern()
}

const tracerName = "sluice.guard"

// Process runs the filter and validator over input, emitting exactly one
// diagnostic record, one span and one metrics observation for the request.
// The first failing stage terminates the request; later stages never see the
// input, and rejection is deterministic (no retries). Diagnostic emission
// cannot alter the outcome.
func (p *Processor) Process(ctx context.Context, input string) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	requestID := uuid.NewString()
	rawChars := utf8.RuneCountInString(input)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "guard.process")
	defer span.End()
	span.SetAttributes(
		attribute.String("guard.request_id", requestID),
		attribute.Int("guard.input.chars", rawChars),
	)

	filtered, err := p.filter.Apply(input)
	if err != nil {
		return p.reject(ctx, span, requestID, rawChars, err, start)
	}

	value, err := p.validator.Apply(filtered)
	if err != nil {
		return p.reject(ctx, span, requestID, rawChars, err, start)
	}

	span.SetAttributes(attribute.String("guard.outcome", string(OutcomeAccepted)))

	duration := time.Since(start)
	// The admitted value is safe to echo: it already passed the allow-list.
	p.logger.InfoContext(ctx, "request admitted",
		"request_id", requestID,
		"filter", "pass",
		"validate", "pass",
		"value", value,
		"chars", utf8.RuneCountInString(value),
	)

	p.observe(ctx, OutcomeAccepted, "", rawChars, duration)

	return Result{RequestID: requestID, Outcome: OutcomeAccepted, Value: value}
}

// Sanitize is the plain string surface over Process: the sanitized value for
// accepted input, the empty string for rejected input. The empty string is
// also a legal accepted value; callers that must tell the two apart should
// call Process and inspect the Result.
func (p *Processor) Sanitize(ctx context.Context, input string) string {
	result := p.Process(ctx, input)
	if !result.Accepted() {
		return ""
	}
	return result.Value
}

func (p *Processor) reject(ctx context.Context, span trace.Span, requestID string, rawChars int, err error, start time.Time) Result {
	kind := kindOf(err)
	duration := time.Since(start)

	span.SetAttributes(
		attribute.String("guard.outcome", string(OutcomeRejected)),
		attribute.String("guard.rejection.kind", string(kind)),
	)
	telemetry.RecordRejection(span, string(kind), p.filter.Limit())
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	// Rejected content never travels in diagnostics, only its size and kind.
	p.logger.ErrorContext(ctx, "request rejected",
		"request_id", requestID,
		"reason", string(kind),
		"chars", rawChars,
		"error", err.Error(),
	)

	p.observe(ctx, OutcomeRejected, kind, rawChars, duration)

	return Result{RequestID: requestID, Outcome: OutcomeRejected, Kind: kind, Err: err}
}

func (p *Processor) observe(ctx context.Context, outcome Outcome, kind RejectionKind, chars int, duration time.Duration) {
	telemetry.RecordProcess(ctx, telemetry.ProcessMetrics{
		Outcome:    string(outcome),
		Kind:       string(kind),
		InputChars: chars,
		Duration:   duration,
	})
	if p.metrics != nil {
		p.metrics.ObserveProcess(string(outcome), string(kind), chars, duration)
	}
}

func kindOf(err error) RejectionKind {
	switch {
	case errors.Is(err, ErrLengthExceeded):
		return KindLengthExceeded
	case errors.Is(err, ErrInvalidCharacters):
		return KindInvalidCharacters
	default:
		return RejectionKind("")
	}
}
