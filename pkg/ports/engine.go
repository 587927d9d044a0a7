package ports

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
)

// Calculator is the engine surface used by adapters (HTTP, MCP, terminal) that
// keep session state outside the engine.
type Calculator interface {
	// Start creates a fresh state for the session.
	Start(ctx context.Context, sessionID string) *domain.State

	// Apply executes a button command and returns the new state together with
	// the presentation requests it caused.
	Apply(ctx context.Context, state *domain.State, cmd domain.Command) (*domain.State, []domain.ActionRequest, error)

	// KeyPress maps a physical key. handled is false for unbound keys.
	KeyPress(ctx context.Context, state *domain.State, key string) (next *domain.State, actions []domain.ActionRequest, handled bool)

	// Render calculates the full presentation for a state without changing it.
	Render(ctx context.Context, state *domain.State) []domain.ActionRequest

	// Calculate evaluates a standalone expression. Failures wrap domain.ErrEvaluation.
	Calculate(ctx context.Context, expr string, mode domain.AngleMode) (string, error)
}
