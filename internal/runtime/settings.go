package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/abacus/pkg/domain"
)

// ToggleTheme switches between light and dark.
func (e *Engine) ToggleTheme(ctx context.Context, s *domain.State) *domain.State {
	next := s.Snapshot()
	next.Theme = s.Theme.Toggle()
	return e.commit(s, next)
}

// ToggleAngleMode switches between degrees and radians.
func (e *Engine) ToggleAngleMode(ctx context.Context, s *domain.State) *domain.State {
	next := s.Snapshot()
	next.AngleMode = s.AngleMode.Toggle()
	return e.commit(s, next)
}

// SetAngleMode selects an explicit angle mode.
func (e *Engine) SetAngleMode(ctx context.Context, s *domain.State, mode domain.AngleMode) (*domain.State, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: invalid angle mode %q", domain.ErrUnknownCommand, mode)
	}
	next := s.Snapshot()
	next.AngleMode = mode
	return e.commit(s, next), nil
}
