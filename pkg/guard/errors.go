package guard

import (
	"errors"
	"fmt"
)

// Rejection sentinels. Both are expected, input-driven conditions: callers
// match them with errors.Is to branch on the rejection kind without parsing
// messages.
var (
	// ErrLengthExceeded reports input longer than the configured limit.
	ErrLengthExceeded = errors.New("guard: input length exceeds limit")
	// ErrInvalidCharacters reports input containing characters outside the allow-list.
	ErrInvalidCharacters = errors.New("guard: input contains disallowed characters")
)

// LengthExceededError carries the measured length alongside the limit that
// was breached. It matches ErrLengthExceeded under errors.Is.
type LengthExceededError struct {
	Limit  int
	Length int
}

func (e *LengthExceededError) Error() string {
	return fmt.Sprintf("guard: input length %d exceeds limit %d", e.Length, e.Limit)
}

func (e *LengthExceededError) Unwrap() error {
	return ErrLengthExceeded
}

// InvalidCharactersError carries the allow-list pattern the input failed to
// match. It matches ErrInvalidCharacters under errors.Is. The offending input
// is deliberately not included; rejected content never travels in error text.
type InvalidCharactersError struct {
	Pattern string
}

func (e *InvalidCharactersError) Error() string {
	return fmt.Sprintf("guard: input does not match allowed pattern %s", e.Pattern)
}

func (e *InvalidCharactersError) Unwrap() error {
	return ErrInvalidCharacters
}
