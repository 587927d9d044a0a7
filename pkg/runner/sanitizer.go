package runner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize bounds a single line or expression in bytes.
// Hosts set their own limit from the max_input_size setting.
const DefaultMaxInputSize = 4096

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput is SanitizeInputWithLimit with DefaultMaxInputSize.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputWithLimit(input, DefaultMaxInputSize)
}

// SanitizeInputWithLimit vets text before it is typed into a buffer.
// Oversized input is rejected, never truncated: a cut expression would still
// evaluate, to the wrong number. Control runes other than tab and line breaks
// are dropped so escape sequences never reach the display. A non-positive
// limit means DefaultMaxInputSize.
func SanitizeInputWithLimit(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	return strings.Map(keepRune, input), nil
}

func keepRune(r rune) rune {
	switch {
	case r == '\n', r == '\t', r == '\r':
		return r
	case unicode.IsControl(r):
		return -1
	}
	return r
}
