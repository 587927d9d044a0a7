package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/abacus/internal/compiler"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/google/uuid"
)

// ArchiveSession saves the current history of a stored session as a new tape.
func ArchiveSession(ctx context.Context, sessions *session.Manager, archive ports.TapeArchive, sessionID string, now time.Time) (*domain.Tape, error) {
	state, err := sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error loading session '%s': %w", sessionID, err)
	}
	tape := domain.NewTape(uuid.NewString(), state, now)
	if err := archive.Save(ctx, tape); err != nil {
		return nil, fmt.Errorf("error archiving session '%s': %w", sessionID, err)
	}
	return tape, nil
}

// PrintTapes writes one summary line per tape.
func PrintTapes(w io.Writer, tapes []*domain.Tape) {
	if len(tapes) == 0 {
		fmt.Fprintln(w, "No tapes archived.")
		return
	}
	for _, t := range tapes {
		fmt.Fprintf(w, "%s  %s  session=%s  entries=%d\n",
			t.ID, t.CreatedAt.UTC().Format(time.RFC3339), t.SessionID, len(t.Entries))
	}
}

// PrintTape writes a tape oldest entry first, the way it was typed.
func PrintTape(w io.Writer, t *domain.Tape) {
	fmt.Fprintf(w, "Tape %s (session %s, %s, memory %s)\n",
		t.ID, t.SessionID, t.AngleMode, compiler.FormatNumber(t.Memory.Float()))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for i := len(t.Entries) - 1; i >= 0; i-- {
		fmt.Fprintln(w, t.Entries[i])
	}
}
