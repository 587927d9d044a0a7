package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/abacus/pkg/domain"
)

// LoggingHooks writes one structured log line per engine event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluate: func(ctx context.Context, e *domain.EvaluationEvent) {
			logger.InfoContext(ctx, "evaluate",
				"session_id", e.SessionID,
				"expression", e.Expression,
				"result", e.Result,
				"angle_mode", e.AngleMode,
				"duration", e.Duration,
			)
		},
		OnEvaluationError: func(ctx context.Context, e *domain.EvaluationEvent) {
			logger.WarnContext(ctx, "evaluation_error",
				"session_id", e.SessionID,
				"expression", e.Expression,
				"err", e.Err,
			)
		},
		OnMemory: func(ctx context.Context, e *domain.MemoryEvent) {
			logger.DebugContext(ctx, "memory", "session_id", e.SessionID, "op", e.Op, "value", e.Value)
		},
		OnHistoryClear: func(ctx context.Context, e *domain.EventBase) {
			logger.InfoContext(ctx, "history_clear", "session_id", e.SessionID)
		},
	}
}

// Chain combines hooks so each event reaches every non-nil callback in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnEvaluate = chain(out.OnEvaluate, h.OnEvaluate)
		out.OnEvaluationError = chain(out.OnEvaluationError, h.OnEvaluationError)
		out.OnMemory = chain(out.OnMemory, h.OnMemory)
		out.OnHistoryClear = chain(out.OnHistoryClear, h.OnHistoryClear)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
