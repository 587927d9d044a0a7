package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/persistence/middleware"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func sealed(t *testing.T, next ports.StateStore, cfg middleware.EncryptionConfig) ports.StateStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(next)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, sealed(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := sealed(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	ctx := context.Background()
	original := domain.NewState("s1")
	original.Buffer = "1234*5678"
	original.Memory = 42
	original.History = []string{"6*7 = 42"}
	original.Version = 3

	require.NoError(t, secure.Save(ctx, "s1", original))

	stored, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, stored.Buffer)
	assert.Empty(t, stored.History)
	assert.Equal(t, domain.Register(0), stored.Memory)
	assert.NotEmpty(t, stored.Sealed)
	assert.Equal(t, uint64(3), stored.Version, "version stays readable for watchers")

	loaded, err := secure.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "1234*5678", loaded.Buffer)
	assert.Equal(t, domain.Register(42), loaded.Memory)
	assert.Equal(t, []string{"6*7 = 42"}, loaded.History)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := sealed(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey})
	state := domain.NewState("rot")
	state.Buffer = "old"
	require.NoError(t, oldStore.Save(ctx, "rot", state))

	newStore := sealed(t, underlying, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	loaded, err := newStore.Load(ctx, "rot")
	require.NoError(t, err)
	assert.Equal(t, "old", loaded.Buffer)

	loaded.Buffer = "new"
	require.NoError(t, newStore.Save(ctx, "rot", loaded))

	_, err = oldStore.Load(ctx, "rot")
	assert.Error(t, err, "data sealed with the new key must not open with the old one")
}

func TestEncryptionMiddleware_RefusesPlainState(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", domain.NewState("plain")))

	secure := sealed(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := secure.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.Error(t, err)
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey("not base64!")
	assert.Error(t, err)
	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}

func TestWrap_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.StateStore) ports.StateStore {
			return recordingStore{StateStore: next, name: name, calls: &calls}
		}
	}
	store := middleware.Wrap(memory.NewStore(), tag("outer"), tag("inner"))
	require.NoError(t, store.Save(context.Background(), "w", domain.NewState("w")))
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type recordingStore struct {
	ports.StateStore
	name  string
	calls *[]string
}

func (r recordingStore) Save(ctx context.Context, id string, s *domain.State) error {
	*r.calls = append(*r.calls, r.name)
	return r.StateStore.Save(ctx, id, s)
}
