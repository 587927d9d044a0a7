package abacus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/abacus/internal/compiler"
	"github.com/aretw0/abacus/internal/runtime"
	"github.com/aretw0/abacus/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/aretw0/abacus"

// Engine is the high-level entry point for the abacus library.
// It wraps the internal runtime and provides a simplified API for consumers.
// It is stateless: callers own the *domain.State values it returns.
type Engine struct {
	runtime   *runtime.Engine
	evaluator *compiler.Evaluator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	tracer    trace.Tracer
	provider  trace.TracerProvider
	clock     func() time.Time
	angle     domain.AngleMode
	theme     domain.Theme
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAngleMode sets the angle mode of new sessions (default degrees).
func WithAngleMode(mode domain.AngleMode) Option {
	return func(e *Engine) {
		e.angle = mode
	}
}

// WithTheme sets the theme of new sessions (default light).
func WithTheme(theme domain.Theme) Option {
	return func(e *Engine) {
		e.theme = theme
	}
}

// WithTracerProvider sets the OpenTelemetry provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		e.provider = tp
	}
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = now
	}
}

// New initializes a new calculator Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		angle: domain.AngleDegrees,
		theme: domain.ThemeLight,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if !eng.angle.Valid() {
		return nil, fmt.Errorf("invalid angle mode %q", eng.angle)
	}
	if !eng.theme.Valid() {
		return nil, fmt.Errorf("invalid theme %q", eng.theme)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.provider == nil {
		eng.provider = otel.GetTracerProvider()
	}
	eng.tracer = eng.provider.Tracer(instrumentationName, trace.WithInstrumentationVersion(Version))

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithDefaultAngleMode(eng.angle),
		runtime.WithDefaultTheme(eng.theme),
	}
	if eng.clock != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithClock(eng.clock))
	}

	eng.runtime = runtime.NewEngine(runtimeOpts...)
	eng.evaluator = compiler.NewEvaluator()
	return eng, nil
}

// Start creates the initial state for a session.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	ctx, span := e.tracer.Start(ctx, "abacus.Start", trace.WithAttributes(
		attribute.String("abacus.session_id", sessionID),
	))
	defer span.End()
	return e.runtime.Start(ctx, sessionID)
}

// Apply executes a button command and returns the new state and the
// presentation requests caused by the change.
func (e *Engine) Apply(ctx context.Context, state *domain.State, cmd domain.Command) (*domain.State, []domain.ActionRequest, error) {
	ctx, span := e.tracer.Start(ctx, "abacus.Apply", trace.WithAttributes(
		attribute.String("abacus.session_id", state.SessionID),
		attribute.String("abacus.command", string(cmd.Name)),
	))
	defer span.End()

	next, err := e.runtime.Apply(ctx, state, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	if next.IsError() && !state.IsError() {
		span.AddEvent("evaluation failed")
	}
	span.SetAttributes(attribute.Int64("abacus.version", int64(next.Version)))
	return next, e.runtime.Changes(ctx, state, next), nil
}

// KeyPress maps a physical key (digits, operators, "Enter", "Backspace", "Escape").
// Unbound keys return the state unchanged with handled=false.
func (e *Engine) KeyPress(ctx context.Context, state *domain.State, key string) (*domain.State, []domain.ActionRequest, bool) {
	ctx, span := e.tracer.Start(ctx, "abacus.KeyPress", trace.WithAttributes(
		attribute.String("abacus.session_id", state.SessionID),
		attribute.String("abacus.key", key),
	))
	defer span.End()

	next, handled := e.runtime.KeyPress(ctx, state, key)
	span.SetAttributes(attribute.Bool("abacus.handled", handled))
	if !handled {
		return next, nil, false
	}
	return next, e.runtime.Changes(ctx, state, next), true
}

// Render generates the full set of presentation requests for a state.
func (e *Engine) Render(ctx context.Context, state *domain.State) []domain.ActionRequest {
	return e.runtime.Render(ctx, state)
}

// Calculate evaluates a standalone expression without touching any session.
// An empty mode uses the engine default. Failures wrap domain.ErrEvaluation.
func (e *Engine) Calculate(ctx context.Context, expr string, mode domain.AngleMode) (string, error) {
	if mode == "" {
		mode = e.angle
	}
	_, span := e.tracer.Start(ctx, "abacus.Calculate", trace.WithAttributes(
		attribute.String("abacus.angle_mode", string(mode)),
	))
	defer span.End()

	if !mode.Valid() {
		err := fmt.Errorf("invalid angle mode %q", mode)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	res := e.evaluator.Evaluate(expr, mode)
	if !res.OK() {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "evaluation failed")
		return "", res.Err
	}
	return compiler.FormatNumber(res.Value), nil
}

// DefaultAngleMode returns the angle mode applied to new sessions.
func (e *Engine) DefaultAngleMode() domain.AngleMode {
	return e.angle
}
