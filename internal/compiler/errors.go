package compiler

import (
	"fmt"

	"github.com/aretw0/abacus/pkg/domain"
)

// SyntaxError reports a malformed expression.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

// Unwrap makes every SyntaxError an evaluation failure.
func (e *SyntaxError) Unwrap() error {
	return domain.ErrEvaluation
}
