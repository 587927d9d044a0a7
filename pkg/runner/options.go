package runner

import (
	"log/slog"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the calculator the Runner drives. Required.
func WithEngine(calc ports.Calculator) Option {
	return func(r *Runner) {
		r.engine = calc
	}
}

// WithStore configures the StateStore for persistence.
func WithStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithSessionID sets the session ID used for persistence.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithHeadless disables interactive confirmations and the banner.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithInterceptor configures the command middleware.
func WithInterceptor(interceptor CommandInterceptor) Option {
	return func(r *Runner) {
		r.Interceptor = interceptor
	}
}

// WithInitialState resumes from a given state instead of loading or starting one.
func WithInitialState(state *domain.State) Option {
	return func(r *Runner) {
		r.initialState = state
	}
}
