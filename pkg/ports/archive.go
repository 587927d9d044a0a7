package ports

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
)

// TapeArchive stores exported history tapes.
type TapeArchive interface {
	Save(ctx context.Context, tape *domain.Tape) error
	// Get returns domain.ErrTapeNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*domain.Tape, error)
	List(ctx context.Context) ([]*domain.Tape, error)
}
