// Package loam archives calculator tapes as markdown documents in a Loam repository.
//
// Each tape becomes one document: the YAML front-matter carries the metadata
// and the history entries, the body renders them as a readable list.
package loam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/loam"
)

// DefaultDir is where tapes are archived when no directory is given.
const DefaultDir = ".abacus/tapes"

// TapeMetadata is the front-matter of a tape document.
// CreatedAt is stored as Unix seconds and Memory as a formatted float so the
// document survives any YAML or JSON round trip.
type TapeMetadata struct {
	ID        string   `json:"id" yaml:"id" mapstructure:"id"`
	SessionID string   `json:"session_id" yaml:"session_id" mapstructure:"session_id"`
	CreatedAt int64    `json:"created_at" yaml:"created_at" mapstructure:"created_at"`
	AngleMode string   `json:"angle_mode" yaml:"angle_mode" mapstructure:"angle_mode"`
	Memory    string   `json:"memory" yaml:"memory" mapstructure:"memory"`
	Entries   []string `json:"entries" yaml:"entries" mapstructure:"entries"`
}

// Archive adapts a Loam typed repository to the ports.TapeArchive interface.
type Archive struct {
	Repo *loam.TypedRepository[TapeMetadata]
}

// New wraps an existing typed repository.
func New(repo *loam.TypedRepository[TapeMetadata]) *Archive {
	return &Archive{Repo: repo}
}

// Open initializes a Loam repository in dir (DefaultDir if empty) without versioning.
func Open(dir string, opts ...loam.Option) (*Archive, error) {
	if dir == "" {
		dir = DefaultDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tape dir: %w", err)
	}
	opts = append([]loam.Option{loam.WithVersioning(false), loam.WithForceTemp(false)}, opts...)
	repo, err := loam.Init(abs, opts...)
	if err != nil {
		return nil, fmt.Errorf("loam init failed for %s: %w", abs, err)
	}
	return New(loam.NewTypedRepository[TapeMetadata](repo)), nil
}

// Save writes the tape, replacing any tape with the same ID.
func (a *Archive) Save(ctx context.Context, tape *domain.Tape) error {
	if err := validateID(tape.ID); err != nil {
		return err
	}
	err := a.Repo.Save(ctx, &loam.DocumentModel[TapeMetadata]{
		ID:      tape.ID,
		Content: body(tape),
		Data:    toMetadata(tape),
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", tape.ID, err)
	}
	return nil
}

// Get loads a tape. It returns domain.ErrTapeNotFound if no document has that ID.
func (a *Archive) Get(ctx context.Context, id string) (*domain.Tape, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	doc, err := a.Repo.Get(ctx, id)
	if err != nil {
		// Tell a missing tape apart from a read failure.
		if exists, lerr := a.exists(ctx, id); lerr == nil && !exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrTapeNotFound, id)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	return fromMetadata(documentID(doc.ID, doc.Data.ID), doc.Data)
}

// List returns every archived tape, newest first.
func (a *Archive) List(ctx context.Context) ([]*domain.Tape, error) {
	docs, err := a.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	tapes := make([]*domain.Tape, 0, len(docs))
	for _, doc := range docs {
		tape, err := fromMetadata(documentID(doc.ID, doc.Data.ID), doc.Data)
		if err != nil {
			return nil, err
		}
		tapes = append(tapes, tape)
	}
	sortNewestFirst(tapes)
	return tapes, nil
}

func (a *Archive) exists(ctx context.Context, id string) (bool, error) {
	docs, err := a.Repo.List(ctx)
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if documentID(doc.ID, doc.Data.ID) == id {
			return true, nil
		}
	}
	return false, nil
}

func toMetadata(tape *domain.Tape) TapeMetadata {
	return TapeMetadata{
		ID:        tape.ID,
		SessionID: tape.SessionID,
		CreatedAt: tape.CreatedAt.Unix(),
		AngleMode: string(tape.AngleMode),
		Memory:    strconv.FormatFloat(tape.Memory.Float(), 'g', -1, 64),
		Entries:   tape.Entries,
	}
}

func fromMetadata(id string, meta TapeMetadata) (*domain.Tape, error) {
	memory := 0.0
	if meta.Memory != "" {
		v, err := strconv.ParseFloat(meta.Memory, 64)
		if err != nil {
			return nil, fmt.Errorf("tape %s has invalid memory %q: %w", id, meta.Memory, err)
		}
		memory = v
	}
	return &domain.Tape{
		ID:        id,
		SessionID: meta.SessionID,
		CreatedAt: time.Unix(meta.CreatedAt, 0).UTC(),
		AngleMode: domain.AngleMode(meta.AngleMode),
		Memory:    domain.Register(memory),
		Entries:   meta.Entries,
	}, nil
}

// body renders the history as markdown, oldest entry first like a paper roll.
func body(tape *domain.Tape) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tape %s\n\n", tape.ID)
	if len(tape.Entries) == 0 {
		b.WriteString("_" + domain.HistoryPlaceholder + "_\n")
		return b.String()
	}
	for i := len(tape.Entries) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "- `%s`\n", tape.Entries[i])
	}
	return b.String()
}

// documentID prefers the front-matter ID and strips the file extension Loam may report.
func documentID(docID, metaID string) string {
	id := metaID
	if id == "" {
		id = docID
	}
	if ext := filepath.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	return filepath.ToSlash(id)
}

var errInvalidID = errors.New("invalid tape id")

func validateID(id string) error {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w %q", errInvalidID, id)
	}
	return nil
}

func sortNewestFirst(tapes []*domain.Tape) {
	slices.SortFunc(tapes, func(a, b *domain.Tape) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
