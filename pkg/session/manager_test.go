package session_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	inner *memory.Store
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	time.Sleep(2 * time.Millisecond)
	return s.inner.Save(ctx, sessionID, state)
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	time.Sleep(2 * time.Millisecond)
	return s.inner.Load(ctx, sessionID)
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	return s.inner.Delete(ctx, sessionID)
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return s.inner.List(ctx)
}

func TestManager_UpdateSerialisesWriters(t *testing.T) {
	manager := session.NewManager(&SlowStore{inner: memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(s *domain.State) (*domain.State, error) {
				next := s.Snapshot()
				next.History = append([]string{strconv.Itoa(len(s.History))}, s.History...)
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, final.History, writers, "no update may be lost")
}

func TestManager_LoadOrStart(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store, session.WithStart(func(_ context.Context, id string) *domain.State {
		s := domain.NewState(id)
		s.Theme = domain.ThemeDark
		return s
	}))
	ctx := context.Background()

	s, err := manager.LoadOrStart(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, s.Theme)
	assert.Equal(t, "new", s.SessionID)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids, "a started session is persisted immediately")

	_, err = manager.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_UpdateErrorDoesNotPersist(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.LoadOrStart(ctx, "s")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = manager.Update(ctx, "s", func(s *domain.State) (*domain.State, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	s, err := manager.Load(ctx, "s")
	require.NoError(t, err)
	assert.Zero(t, s.Version)
}

type recordingLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked []string
	ttl      time.Duration
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = append(l.locked, key)
	l.ttl = ttl
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocked = append(l.unlocked, key)
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	manager := session.NewManager(memory.NewStore(),
		session.WithLocker(locker),
		session.WithLockTTL(5*time.Second),
	)

	require.NoError(t, manager.Save(context.Background(), "d", domain.NewState("d")))
	assert.Equal(t, []string{"d"}, locker.locked)
	assert.Equal(t, []string{"d"}, locker.unlocked)
	assert.Equal(t, 5*time.Second, locker.ttl)
}

type failingLocker struct{}

func (failingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	return nil, errors.New("redis down")
}

func TestManager_LockFailure(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), session.WithLocker(failingLocker{}))
	err := manager.Save(context.Background(), "x", domain.NewState("x"))
	assert.ErrorContains(t, err, "failed to acquire distributed lock")
}
