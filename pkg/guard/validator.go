package guard

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator checks that an entire input matches a single anchored allow-list
// pattern. Accepted input passes through unchanged; the validator never
// rewrites, escapes, or truncates.
type Validator struct {
	expr    *regexp.Regexp
	pattern string
}

// NewValidator compiles the given pattern into a Validator. The pattern must
// be anchored at both ends (^ or \A, $ or \z) so a match always covers the
// whole input; unanchored patterns are rejected rather than silently wrapped.
func NewValidator(pattern string) (*Validator, error) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return nil, fmt.Errorf("guard: validator pattern is required")
	}
	if !anchored(trimmed) {
		return nil, fmt.Errorf("guard: validator pattern %s must be anchored at both ends", trimmed)
	}
	expr, err := regexp.Compile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("guard: invalid validator pattern: %w", err)
	}
	return &Validator{expr: expr, pattern: trimmed}, nil
}

// Pattern returns the anchored pattern this validator enforces.
func (v *Validator) Pattern() string {
	return v.pattern
}

// Apply returns the input unchanged when it matches the allow-list in full.
// On failure it returns the empty string and a *InvalidCharactersError.
func (v *Validator) Apply(input string) (string, error) {
	if !v.expr.MatchString(input) {
		return "", &InvalidCharactersError{Pattern: v.pattern}
	}
	return input, nil
}

func anchored(pattern string) bool {
	startOK := strings.HasPrefix(pattern, "^") || strings.HasPrefix(pattern, `\A`)
	endOK := strings.HasSuffix(pattern, "$") || strings.HasSuffix(pattern, `\z`)
	return startOK && endOK
}
