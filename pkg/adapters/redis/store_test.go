package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/abacus/pkg/adapters/redis"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunStateStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	sessionID := "session-ttl"

	state := domain.NewState(sessionID)
	state.Buffer = "40+2"
	require.NoError(t, store.Save(ctx, sessionID, state))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, sessionID)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, sessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("calc:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "p1", domain.NewState("p1")))
	assert.True(t, mr.Exists("calc:p1"))
	assert.Equal(t, "calc:", store.Prefix())

	require.NoError(t, store.Delete(ctx, "p1"))
	assert.False(t, mr.Exists("calc:p1"))
}
