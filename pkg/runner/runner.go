package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
)

// ErrNoEngine is returned by Run when no calculator was configured.
var ErrNoEngine = errors.New("runner: no engine configured")

// Runner handles the read-evaluate-print loop of a calculator session.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on stdin/stdout is used.
	Handler IOHandler

	// Interceptor guards commands before they reach the engine.
	// If nil, headless runs auto-approve and interactive runs ask for confirmation.
	Interceptor CommandInterceptor

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store is the persistence adapter. If nil, sessions are ephemeral.
	Store ports.StateStore

	// SessionID names the persisted session.
	SessionID string

	Headless bool

	engine       ports.Calculator
	initialState *domain.State
}

// NewRunner creates a new Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the loop until the input ends, the user exits, or ctx is cancelled.
// A first interrupt clears a non-empty buffer; an interrupt on an empty buffer exits.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return ErrNoEngine
	}

	handler := r.resolveHandler()
	interceptor := r.resolveInterceptor(handler)

	state, err := r.resolveInitialState(ctx)
	if err != nil {
		return err
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	if err := handler.Output(ctx, r.engine.Render(ctx, state)); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for {
		inputCtx := signals.Context()
		line, err := handler.Input(inputCtx)
		if err != nil {
			signals.CheckRace()
			if signals.Interrupted() {
				r.Logger.Debug("runner input: interrupted", "buffer", state.Buffer)
				if state.Buffer == "" {
					return r.saveState(ctx, state)
				}
				signals.Reset()
				resp, _ := ApplyAndRender(ctx, r.engine, state, domain.Command{Name: domain.CmdClear})
				state = resp.State
				if err := handler.Output(ctx, resp.Actions); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			}
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return r.saveState(context.WithoutCancel(ctx), state)
			}
			return fmt.Errorf("input error: %w", err)
		}

		next, exit, err := r.step(ctx, handler, interceptor, state, line)
		if err != nil {
			if outErr := handler.SystemOutput(ctx, err.Error()); outErr != nil {
				return outErr
			}
			continue
		}
		if exit {
			return r.saveState(ctx, state)
		}
		if next.Version != state.Version {
			if err := r.saveState(ctx, next); err != nil {
				return fmt.Errorf("critical persistence error: %w", err)
			}
		}
		state = next
	}
}

// step executes one input line and writes the resulting frame.
func (r *Runner) step(
	ctx context.Context,
	handler IOHandler,
	interceptor CommandInterceptor,
	state *domain.State,
	line string,
) (*domain.State, bool, error) {
	st, err := ParseLine(line)
	if err != nil {
		return nil, false, err
	}

	var resp *RichResponse
	switch st.Kind {
	case StepExit:
		return state, true, nil
	case StepHelp:
		return state, false, handler.SystemOutput(ctx, HelpText)
	case StepEvaluate:
		resp, err = ApplyAndRender(ctx, r.engine, state, domain.Command{Name: domain.CmdEvaluate})
	case StepExpression:
		resp, err = TypeAndEvaluate(ctx, r.engine, state, st.Text, st.Continue)
	case StepKey:
		resp = PressKeysAndRender(ctx, r.engine, state, st.Key)
		if len(resp.Unhandled) > 0 {
			return nil, false, fmt.Errorf("unbound key %q", st.Key)
		}
	case StepCommand:
		allowed, ierr := interceptor(ctx, st.Command)
		if ierr != nil {
			return nil, false, fmt.Errorf("command interceptor error: %w", ierr)
		}
		if !allowed {
			r.Logger.Debug("command refused", "command", st.Command.Name)
			return state, false, handler.SystemOutput(ctx, fmt.Sprintf("%s cancelled", st.Command.Name))
		}
		resp, err = ApplyAndRender(ctx, r.engine, state, st.Command)
	}
	if err != nil {
		return nil, false, err
	}

	if err := handler.Output(ctx, resp.Actions); err != nil {
		return nil, false, fmt.Errorf("output error: %w", err)
	}
	return resp.State, false, nil
}

func (r *Runner) saveState(ctx context.Context, state *domain.State) error {
	if r.Store != nil && r.SessionID != "" {
		if err := r.Store.Save(ctx, r.SessionID, state); err != nil {
			return err
		}
		r.Logger.Debug("state saved", "session_id", r.SessionID, "version", state.Version)
	}
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = NewTextHandler(nil, nil)
	return r.Handler
}

// resolveInterceptor returns the configured or default interceptor.
func (r *Runner) resolveInterceptor(h IOHandler) CommandInterceptor {
	if r.Interceptor != nil {
		return r.Interceptor
	}
	if r.Headless {
		return AutoApproveMiddleware()
	}
	return ConfirmationMiddleware(h)
}

func (r *Runner) resolveInitialState(ctx context.Context) (*domain.State, error) {
	if r.initialState != nil {
		return r.initialState, nil
	}
	if r.Store != nil && r.SessionID != "" {
		state, err := r.Store.Load(ctx, r.SessionID)
		if err == nil {
			r.Logger.Debug("session resumed", "session_id", r.SessionID, "version", state.Version)
			return state, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
		}
	}
	return r.engine.Start(ctx, r.SessionID), nil
}
