package loam

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openArchive(t *testing.T) (*Archive, string) {
	t.Helper()
	dir := t.TempDir()
	archive, err := Open(dir)
	require.NoError(t, err)
	return archive, dir
}

func TestArchive_Contract(t *testing.T) {
	archive, _ := openArchive(t)
	ports.RunTapeArchiveContract(t, archive)
}

func TestArchive_WritesReadableMarkdown(t *testing.T) {
	archive, dir := openArchive(t)
	s := domain.NewState("desk")
	s.History = []string{"4*3 = 12", "2+2 = 4"}

	require.NoError(t, archive.Save(context.Background(), domain.NewTape("roll", s, time.Now())))

	matches, err := filepath.Glob(filepath.Join(dir, "roll*"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "session_id: desk")
	assert.Contains(t, text, "# Tape roll")
	// Oldest entry is printed first.
	require.Contains(t, text, "- `2+2 = 4`")
	assert.Less(t, strings.Index(text, "- `2+2 = 4`"), strings.Index(text, "- `4*3 = 12`"))
}

func TestArchive_ListNewestFirst(t *testing.T) {
	archive, _ := openArchive(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new", "mid"} {
		at := base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Hour)
		require.NoError(t, archive.Save(ctx, domain.NewTape(id, domain.NewState(id), at)))
	}

	tapes, err := archive.List(ctx)
	require.NoError(t, err)
	require.Len(t, tapes, 3)
	assert.Equal(t, "new", tapes[0].ID)
	assert.Equal(t, "mid", tapes[1].ID)
	assert.Equal(t, "old", tapes[2].ID)
}

func TestArchive_PoisonedMemory(t *testing.T) {
	archive, _ := openArchive(t)
	s := domain.NewState("nan")
	s.Memory = domain.Register(math.NaN())

	require.NoError(t, archive.Save(context.Background(), domain.NewTape("nan", s, time.Now())))
	got, err := archive.Get(context.Background(), "nan")
	require.NoError(t, err)
	assert.True(t, got.Memory != got.Memory)
}

func TestArchive_RejectsBadIDs(t *testing.T) {
	archive, _ := openArchive(t)
	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		err := archive.Save(context.Background(), &domain.Tape{ID: id})
		assert.ErrorIs(t, err, errInvalidID, id)
	}
}
