package runtime

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
)

// Record prepends an entry to the history log.
func (e *Engine) Record(ctx context.Context, s *domain.State, entry string) *domain.State {
	next := s.Snapshot()
	next.History = prepend(next.History, entry)
	return e.commit(s, next)
}

// ClearHistory empties the history log.
func (e *Engine) ClearHistory(ctx context.Context, s *domain.State) *domain.State {
	next := s.Snapshot()
	next.History = []string{}
	if e.hooks.OnHistoryClear != nil {
		evt := e.event(s, domain.EventHistoryClear)
		e.hooks.OnHistoryClear(ctx, &evt)
	}
	return e.commit(s, next)
}

func prepend(history []string, entry string) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, entry)
	return append(out, history...)
}
