package runtime

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
)

// Render produces the full set of presentation requests for a state:
// the display, the history panel and the theme.
func (e *Engine) Render(ctx context.Context, s *domain.State) []domain.ActionRequest {
	return []domain.ActionRequest{
		renderDisplay(s),
		renderHistory(s),
		applyTheme(s),
	}
}

// Changes returns only the presentation requests needed to move a host
// from old to next. A nil old renders everything.
func (e *Engine) Changes(ctx context.Context, old, next *domain.State) []domain.ActionRequest {
	if old == nil {
		return e.Render(ctx, next)
	}
	diff := domain.Diff(old, next)
	if diff == nil {
		return nil
	}

	var actions []domain.ActionRequest
	if diff.Buffer != nil {
		actions = append(actions, renderDisplay(next))
	}
	if diff.History != nil {
		actions = append(actions, renderHistory(next))
	}
	if diff.Theme != nil {
		actions = append(actions, applyTheme(next))
	}
	return actions
}

func renderDisplay(s *domain.State) domain.ActionRequest {
	return domain.ActionRequest{Type: domain.ActionRenderDisplay, Payload: s.Buffer}
}

func renderHistory(s *domain.State) domain.ActionRequest {
	entries := make([]string, len(s.History))
	copy(entries, s.History)
	return domain.ActionRequest{
		Type: domain.ActionRenderHistory,
		Payload: domain.HistoryView{
			Entries:     entries,
			Placeholder: domain.HistoryPlaceholder,
		},
	}
}

func applyTheme(s *domain.State) domain.ActionRequest {
	return domain.ActionRequest{
		Type:    domain.ActionApplyTheme,
		Payload: domain.ThemeView{Theme: s.Theme, Icon: s.Theme.Icon()},
	}
}
