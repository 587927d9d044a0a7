package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a distributed session lock.
const DefaultLockTTL = 30 * time.Second

// StartFunc builds the initial state for a new session.
type StartFunc func(ctx context.Context, sessionID string) *domain.State

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.StateStore
	start StartFunc

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithStart sets how new sessions are initialised. Defaults to domain.NewState.
func WithStart(start StartFunc) Option {
	return func(m *Manager) {
		if start != nil {
			m.start = start
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		start: func(_ context.Context, sessionID string) *domain.State {
			return domain.NewState(sessionID)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// LoadOrStart tries to load a session. If not found, it initializes and persists a new one.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.loadOrStart(ctx, sessionID)
		return err
	})
	return state, err
}

func (m *Manager) loadOrStart(ctx context.Context, sessionID string) (*domain.State, error) {
	state, err := m.store.Load(ctx, sessionID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}

	state = m.start(ctx, sessionID)
	if err := m.store.Save(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.Debug("session created", "session_id", sessionID)
	return state, nil
}

// Update performs a read-modify-write of a session under its lock.
// A missing session is started first. The state returned by fn is persisted and returned.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(*domain.State) (*domain.State, error)) (*domain.State, error) {
	var next *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		current, err := m.loadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}
		next, err = fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			next = current
			return nil
		}
		if err := m.store.Save(ctx, sessionID, next); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Save persists the session state.
func (m *Manager) Save(ctx context.Context, sessionID string, state *domain.State) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, state)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
