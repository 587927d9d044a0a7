package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
)

const historyWidth = 60

// RunSession executes a line-oriented calculator session.
func RunSession(ctx context.Context, svc *Services, opts RunOptions) error {
	opts.defaults()
	quiet := opts.JSON || opts.Headless

	state, loaded, err := hydrateSession(ctx, svc, &opts)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}

	if !quiet {
		tui.PrintBanner(opts.Out, abacus.Version)
	}
	logSessionStatus(svc.Logger, opts.Out, opts.SessionID, loaded, quiet)

	handler, err := newIOHandler(svc, opts, state.Theme)
	if err != nil {
		return err
	}

	r := runner.NewRunner(
		runner.WithEngine(svc.Engine),
		runner.WithStore(svc.Sessions.Store()),
		runner.WithSessionID(opts.SessionID),
		runner.WithLogger(svc.Logger),
		runner.WithHeadless(opts.Headless),
		runner.WithInputHandler(handler),
		runner.WithInitialState(state),
	)

	runErr := r.Run(ctx)
	svc.Logger.Info("Session finished", "session_id", opts.SessionID, "err", runErr)
	return handleExecutionError(runErr)
}

// hydrateSession resumes opts.SessionID or starts it, assigning a fresh id when empty.
func hydrateSession(ctx context.Context, svc *Services, opts *RunOptions) (*domain.State, bool, error) {
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	_, err := svc.Sessions.Load(ctx, opts.SessionID)
	loaded := err == nil
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, err
	}
	state, err := svc.Sessions.LoadOrStart(ctx, opts.SessionID)
	if err != nil {
		return nil, false, err
	}
	return state, loaded, nil
}

// newIOHandler picks the JSON handler or a themed text handler.
func newIOHandler(svc *Services, opts RunOptions, theme domain.Theme) (runner.IOHandler, error) {
	if opts.JSON {
		return runner.NewJSONHandler(opts.In, opts.Out,
			runner.WithJSONHandlerMaxInputSize(svc.Config.MaxInputSize)), nil
	}

	handlerOpts := []runner.TextHandlerOption{
		runner.WithTextHandlerMaxInputSize(svc.Config.MaxInputSize),
	}
	if !opts.Headless {
		renderer, err := tui.NewRenderer(theme, historyWidth)
		if err != nil {
			return nil, fmt.Errorf("error initializing renderer: %w", err)
		}
		handlerOpts = append(handlerOpts,
			runner.WithTextHandlerRenderer(renderer.Render),
			runner.WithTextHandlerStyler(tui.DisplayStyler(termenv.EnvColorProfile())),
			runner.WithTextHandlerThemeListener(func(t domain.Theme) {
				if err := renderer.SetTheme(t); err != nil {
					svc.Logger.Warn("theme switch failed", "theme", t, "err", err)
				}
			}),
		)
	}
	return runner.NewTextHandler(opts.In, opts.Out, handlerOpts...), nil
}
