package ports

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Buffer = "2+2"
		state.Memory = 7.5
		state.History = []string{"3*3 = 9", "1+1 = 2"}
		state.AngleMode = domain.AngleRadians
		state.Theme = domain.ThemeDark
		state.Version = 4

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.SessionID, loaded.SessionID)
		assert.Equal(t, state.Buffer, loaded.Buffer)
		assert.Equal(t, state.Memory, loaded.Memory)
		assert.Equal(t, state.History, loaded.History, "history order must be preserved")
		assert.Equal(t, state.AngleMode, loaded.AngleMode)
		assert.Equal(t, state.Theme, loaded.Theme)
		assert.Equal(t, state.Version, loaded.Version)
	})

	t.Run("Poisoned Memory", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Memory = domain.Register(math.NaN())

		require.NoError(t, store.Save(ctx, sessionID, state))
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(loaded.Memory.Float()))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Delete of a missing session is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1))
		_ = store.Save(ctx, id2, domain.NewState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunTapeArchiveContract verifies a TapeArchive implementation.
func RunTapeArchiveContract(t *testing.T, archive TapeArchive) {
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	t.Run("Save and Get", func(t *testing.T) {
		s := domain.NewState("tape-session")
		s.History = []string{"2^10 = 1024", "50/100 = 0.5"}
		s.Memory = 3
		tape := domain.NewTape("tape-1", s, at)

		require.NoError(t, archive.Save(ctx, tape))

		got, err := archive.Get(ctx, "tape-1")
		require.NoError(t, err)
		assert.Equal(t, tape.SessionID, got.SessionID)
		assert.Equal(t, tape.Entries, got.Entries)
		assert.Equal(t, tape.AngleMode, got.AngleMode)
		assert.Equal(t, tape.Memory, got.Memory)
		assert.True(t, tape.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("Empty Tape", func(t *testing.T) {
		tape := domain.NewTape("tape-empty", domain.NewState("quiet"), at)
		require.NoError(t, archive.Save(ctx, tape))

		got, err := archive.Get(ctx, "tape-empty")
		require.NoError(t, err)
		assert.Empty(t, got.Entries)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := archive.Get(ctx, "no-such-tape")
		assert.ErrorIs(t, err, domain.ErrTapeNotFound)
	})

	t.Run("List", func(t *testing.T) {
		tapes, err := archive.List(ctx)
		require.NoError(t, err)

		ids := make([]string, 0, len(tapes))
		for _, tp := range tapes {
			ids = append(ids, tp.ID)
		}
		assert.Contains(t, ids, "tape-1")
		assert.Contains(t, ids, "tape-empty")
	})
}
