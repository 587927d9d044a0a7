package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/abacus/internal/compiler"
	"github.com/aretw0/abacus/pkg/domain"
)

// Engine is the calculator core. It is synchronous and never mutates the
// state it is given: every operation returns a new *domain.State.
type Engine struct {
	evaluator *compiler.Evaluator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	now       func() time.Time

	defaultAngle domain.AngleMode
	defaultTheme domain.Theme
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for UpdatedAt and event timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithDefaultAngleMode sets the angle mode of freshly started sessions.
func WithDefaultAngleMode(mode domain.AngleMode) EngineOption {
	return func(e *Engine) {
		if mode.Valid() {
			e.defaultAngle = mode
		}
	}
}

// WithDefaultTheme sets the theme of freshly started sessions.
func WithDefaultTheme(theme domain.Theme) EngineOption {
	return func(e *Engine) {
		if theme.Valid() {
			e.defaultTheme = theme
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		evaluator:    compiler.NewEvaluator(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
		defaultAngle: domain.AngleDegrees,
		defaultTheme: domain.ThemeLight,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates the initial state for a session.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	s := domain.NewState(sessionID)
	s.AngleMode = e.defaultAngle
	s.Theme = e.defaultTheme
	s.UpdatedAt = e.now()
	e.logger.DebugContext(ctx, "session started", "session_id", sessionID)
	return s
}

// commit finalises a mutation. Versions only move when something observable changed.
func (e *Engine) commit(old, next *domain.State) *domain.State {
	if domain.Diff(old, next) == nil {
		return next
	}
	next.Version = old.Version + 1
	next.UpdatedAt = e.now()
	return next
}

func (e *Engine) event(s *domain.State, typ domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      typ,
		SessionID: s.SessionID,
	}
}
