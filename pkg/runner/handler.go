package runner

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the presentation requests emitted by the engine.
	Output(ctx context.Context, actions []domain.ActionRequest) error

	// Input reads one line from the user in the runner's line syntax.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (help, confirmations, warnings).
	// This is distinct from the calculator display.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written (e.g. glamour for terminals).
type ContentRenderer func(string) (string, error)

// DisplayStyler decorates the display line for the current theme.
type DisplayStyler func(buffer string, theme domain.Theme) string
