package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by RunKeys when stdin is not a terminal.
var ErrNotTerminal = errors.New("key mode needs an interactive terminal")

// Control keys produced by DecodeKeys besides the keypad names.
const (
	KeyInterrupt = "Ctrl+C"
	KeyEOF       = "Ctrl+D"
)

// RunKeys runs a session where every keystroke is a key press, like the keypad
// of a desk calculator.
func RunKeys(ctx context.Context, svc *Services, opts RunOptions) error {
	opts.defaults()
	f, ok := opts.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return ErrNotTerminal
	}

	state, loaded, err := hydrateSession(ctx, svc, &opts)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}
	tui.PrintBanner(opts.Out, abacus.Version)
	logSessionStatus(svc.Logger, opts.Out, opts.SessionID, loaded, false)

	fd := int(f.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, old) }()

	loop := &keyLoop{
		svc:    svc,
		out:    opts.Out,
		styler: tui.DisplayStyler(termenv.EnvColorProfile()),
	}
	final, err := loop.run(ctx, opts.In, state)
	fmt.Fprint(opts.Out, "\r\n")
	if final != nil {
		if saveErr := svc.Sessions.Save(context.WithoutCancel(ctx), opts.SessionID, final); saveErr != nil {
			err = errors.Join(err, saveErr)
		}
	}
	return handleExecutionError(err)
}

// keyLoop feeds decoded keystrokes to the engine and redraws a single display line.
type keyLoop struct {
	svc    *Services
	out    io.Writer
	styler runner.DisplayStyler
}

func (l *keyLoop) run(ctx context.Context, in io.Reader, state *domain.State) (*domain.State, error) {
	l.draw(state)
	buf := make([]byte, 64)
	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		n, err := in.Read(buf)
		for _, key := range DecodeKeys(buf[:n]) {
			var done bool
			state, done = l.press(ctx, state, key)
			if done {
				return state, nil
			}
		}
		if err != nil {
			return state, err
		}
	}
}

// press applies one key. Ctrl+C clears a non-empty buffer and quits on an empty one.
func (l *keyLoop) press(ctx context.Context, state *domain.State, key string) (*domain.State, bool) {
	switch key {
	case KeyEOF:
		return state, true
	case KeyInterrupt:
		if state.Buffer == "" {
			return state, true
		}
		key = "Escape"
	}

	next, _, handled := l.svc.Engine.KeyPress(ctx, state, key)
	if !handled {
		l.svc.Logger.Debug("unbound key", "key", key)
		return state, false
	}
	if len(next.History) > len(state.History) {
		fmt.Fprintf(l.out, "\r\x1b[2K  %s\r\n", next.History[0])
	}
	if next.Version != state.Version {
		if err := l.svc.Sessions.Save(ctx, state.SessionID, next); err != nil {
			l.svc.Logger.Warn("failed to save session", "session_id", state.SessionID, "err", err)
		}
	}
	l.draw(next)
	return next, false
}

func (l *keyLoop) draw(state *domain.State) {
	fmt.Fprintf(l.out, "\r\x1b[2K= %s", l.styler(state.Buffer, state.Theme))
}

// DecodeKeys turns raw terminal bytes into key names. Escape sequences such
// as arrow keys are dropped; a lone ESC is the Escape key.
func DecodeKeys(b []byte) []string {
	var keys []string
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == 0x03:
			keys = append(keys, KeyInterrupt)
		case c == 0x04:
			keys = append(keys, KeyEOF)
		case c == '\r' || c == '\n':
			keys = append(keys, "Enter")
		case c == 0x7f || c == 0x08:
			keys = append(keys, "Backspace")
		case c == 0x1b:
			if i+1 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				i = skipEscapeSequence(b, i+2)
				continue
			}
			keys = append(keys, "Escape")
		case c >= 0x20 && c < 0x7f:
			keys = append(keys, string(rune(c)))
		}
	}
	return keys
}

// skipEscapeSequence returns the index of the final byte of a CSI sequence starting at i.
func skipEscapeSequence(b []byte, i int) int {
	for ; i < len(b); i++ {
		if b[i] >= 0x40 && b[i] <= 0x7e {
			return i
		}
	}
	return len(b) - 1
}
