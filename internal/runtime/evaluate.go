package runtime

import (
	"context"
	"math"
	"time"

	"github.com/aretw0/abacus/internal/compiler"
	"github.com/aretw0/abacus/pkg/domain"
)

// Evaluate computes the buffer. On success the buffer holds the formatted result
// and "expression = result" is prepended to the history. On failure the buffer
// becomes domain.ErrorMarker and the history is untouched. An empty buffer is a no-op.
func (e *Engine) Evaluate(ctx context.Context, s *domain.State) *domain.State {
	if s.Buffer == "" {
		return s.Snapshot()
	}
	return e.evaluate(ctx, s, s.Buffer, compiler.HistoryText(s.Buffer))
}

// Percent divides the whole buffer by 100 and evaluates it like Evaluate.
func (e *Engine) Percent(ctx context.Context, s *domain.State) *domain.State {
	if s.Buffer == "" {
		return s.Snapshot()
	}
	expr := "(" + s.Buffer + ")/100"
	shown := expr
	if compiler.IsNumberLiteral(s.Buffer) {
		shown = s.Buffer + "/100"
	}
	return e.evaluate(ctx, s, expr, compiler.HistoryText(shown))
}

func (e *Engine) evaluate(ctx context.Context, s *domain.State, expr, shown string) *domain.State {
	start := e.now()
	res := e.evaluator.Evaluate(expr, s.AngleMode)
	next := s.Snapshot()

	evt := &domain.EvaluationEvent{
		EventBase:  e.event(s, domain.EventEvaluate),
		Expression: expr,
		AngleMode:  s.AngleMode,
	}

	if !res.OK() {
		next.Buffer = domain.ErrorMarker
		evt.Type = domain.EventEvaluationError
		evt.Result = domain.ErrorMarker
		evt.Err = res.Err
		evt.Duration = time.Since(start)
		e.logger.DebugContext(ctx, "evaluation failed", "session_id", s.SessionID, "expression", expr, "err", res.Err)
		if e.hooks.OnEvaluationError != nil {
			e.hooks.OnEvaluationError(ctx, evt)
		}
		return e.commit(s, next)
	}

	result := compiler.FormatNumber(res.Value)
	next.Buffer = result
	next.History = prepend(next.History, shown+" = "+result)

	evt.Result = result
	evt.Recorded = true
	evt.Duration = time.Since(start)
	e.logger.DebugContext(ctx, "evaluated", "session_id", s.SessionID, "expression", expr, "result", result)
	if e.hooks.OnEvaluate != nil {
		e.hooks.OnEvaluate(ctx, evt)
	}
	return e.commit(s, next)
}

// value evaluates the buffer with no history side effect.
// A failed evaluation yields NaN.
func (e *Engine) value(ctx context.Context, s *domain.State) float64 {
	res := e.evaluator.Evaluate(s.Buffer, s.AngleMode)
	if !res.OK() {
		e.logger.WarnContext(ctx, "buffer is not a number, memory register poisoned",
			"session_id", s.SessionID, "buffer", s.Buffer, "err", res.Err)
		return math.NaN()
	}
	return res.Value
}
