package runtime

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/abacus/pkg/domain"
)

// segmentSeparators end a numeric segment of the buffer.
const segmentSeparators = "+-*/()^%"

// Append concatenates token to the buffer. The whole token is refused when it
// would leave a numeric segment with a second decimal point, whether the token
// is a single "." or a longer run such as ".5" or "1.2.3".
func (e *Engine) Append(ctx context.Context, s *domain.State, token string) *domain.State {
	next := s.Snapshot()
	if !decimalsFit(s.Buffer, token) {
		e.logger.DebugContext(ctx, "decimal point refused", "session_id", s.SessionID, "buffer", s.Buffer, "token", token)
		return next
	}
	next.Buffer = s.Buffer + token
	return e.commit(s, next)
}

// Clear empties the buffer.
func (e *Engine) Clear(ctx context.Context, s *domain.State) *domain.State {
	next := s.Snapshot()
	next.Buffer = ""
	return e.commit(s, next)
}

// Backspace drops the last character of the buffer.
func (e *Engine) Backspace(ctx context.Context, s *domain.State) *domain.State {
	next := s.Snapshot()
	if s.Buffer == "" {
		return next
	}
	_, size := utf8.DecodeLastRuneInString(s.Buffer)
	next.Buffer = s.Buffer[:len(s.Buffer)-size]
	return e.commit(s, next)
}

// Power inserts the exponent operator. Nothing is evaluated.
func (e *Engine) Power(ctx context.Context, s *domain.State) *domain.State {
	return e.Append(ctx, s, "^")
}

// Function appends "name(" for one of domain.Functions.
func (e *Engine) Function(ctx context.Context, s *domain.State, name string) (*domain.State, error) {
	if !domain.IsFunction(name) {
		return nil, &domain.UnknownCommandError{Name: name}
	}
	return e.Append(ctx, s, name+"("), nil
}

// decimalsFit walks token as a continuation of the buffer's trailing segment.
func decimalsFit(buffer, token string) bool {
	dotted := strings.Contains(trailingSegment(buffer), ".")
	for _, r := range token {
		switch {
		case r == '.':
			if dotted {
				return false
			}
			dotted = true
		case strings.ContainsRune(segmentSeparators, r):
			dotted = false
		}
	}
	return true
}

func trailingSegment(buffer string) string {
	if i := strings.LastIndexAny(buffer, segmentSeparators); i >= 0 {
		return buffer[i+1:]
	}
	return buffer
}
