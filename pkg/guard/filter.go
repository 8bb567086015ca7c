package guard

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxInputLength is the length ceiling applied when no explicit limit
// is configured. Lengths are counted in Unicode code points, not bytes.
const DefaultMaxInputLength = 25

// Filter enforces the input length ceiling and trims edge whitespace.
// The length check runs against the raw input before any trimming, so
// padding cannot be used to smuggle oversized payloads past the limit.
type Filter struct {
	limit int
}

// NewFilter constructs a Filter with the given maximum length in runes.
// A zero limit selects DefaultMaxInputLength; negative limits are rejected.
func NewFilter(limit int) (*Filter, error) {
	if limit < 0 {
		return nil, fmt.Errorf("guard: max input length must be positive, got %d", limit)
	}
	if limit == 0 {
		limit = DefaultMaxInputLength
	}
	return &Filter{limit: limit}, nil
}

// Limit returns the configured maximum input length in runes.
func (f *Filter) Limit() int {
	return f.limit
}

// Apply checks the raw input against the length limit and, on success,
// returns the input with leading and trailing whitespace removed. Interior
// characters are never modified. On failure it returns the empty string and
// a *LengthExceededError.
func (f *Filter) Apply(input string) (string, error) {
	if n := utf8.RuneCountInString(input); n > f.limit {
		return "", &LengthExceededError{Limit: f.limit, Length: n}
	}
	return strings.TrimSpace(input), nil
}
