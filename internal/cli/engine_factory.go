package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/config"
	loamadapter "github.com/aretw0/abacus/pkg/adapters/loam"
	"github.com/aretw0/abacus/pkg/adapters/file"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	redisadapter "github.com/aretw0/abacus/pkg/adapters/redis"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/aretw0/abacus/pkg/persistence/middleware"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Services bundles everything a command needs, built once from Config.
type Services struct {
	Config   *config.Config
	Logger   *slog.Logger
	Engine   *abacus.Engine
	Store    ports.StateStore
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Registry *prometheus.Registry

	closers []func() error
}

// NewServices wires the engine, the configured store and the session manager.
func NewServices(cfg *config.Config, logger *slog.Logger) (*Services, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	engine, err := abacus.New(
		abacus.WithLogger(logger),
		abacus.WithAngleMode(cfg.AngleMode),
		abacus.WithTheme(cfg.Theme),
		abacus.WithLifecycleHooks(observability.Chain(
			metrics.Hooks(),
			observability.LoggingHooks(logger),
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	svc := &Services{
		Config:   cfg,
		Logger:   logger,
		Engine:   engine,
		Metrics:  metrics,
		Registry: reg,
	}

	store, locker, err := svc.openStore()
	if err != nil {
		return nil, err
	}
	if store, err = sealStore(cfg.Store, store); err != nil {
		_ = svc.Close()
		return nil, err
	}
	svc.Store = store

	sessionOpts := []session.Option{
		session.WithStart(engine.Start),
		session.WithLogger(logger),
	}
	if locker != nil {
		sessionOpts = append(sessionOpts,
			session.WithLocker(locker),
			session.WithLockTTL(cfg.Store.Redis.LockTTL),
		)
	}
	svc.Sessions = session.NewManager(store, sessionOpts...)
	return svc, nil
}

// openStore builds the session store selected by store.kind.
// Only redis returns a distributed locker.
func (s *Services) openStore() (ports.StateStore, ports.DistributedLocker, error) {
	cfg := s.Config.Store
	switch cfg.Kind {
	case config.StoreMemory, "":
		return memory.NewStore(), nil, nil
	case config.StoreFile:
		s.Logger.Debug("using file store", "dir", cfg.Dir)
		return file.New(cfg.Dir), nil, nil
	case config.StoreRedis:
		s.Logger.Debug("using redis store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		store := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisadapter.WithPrefix(cfg.Redis.Prefix),
			redisadapter.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Client().Ping(context.Background()).Err(); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis %s unreachable: %w", cfg.Redis.Addr, err)
		}
		s.closers = append(s.closers, store.Close)
		return store, redisadapter.NewLocker(store.Client(), cfg.Redis.Prefix+"lock:"), nil
	}
	return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}

// sealStore wraps store with at-rest encryption when a key is configured.
func sealStore(cfg config.StoreConfig, store ports.StateStore) (ports.StateStore, error) {
	if cfg.EncryptionKey == "" {
		return store, nil
	}
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	if cfg.PreviousKey != "" {
		previous, err := middleware.ParseKey(cfg.PreviousKey)
		if err != nil {
			return nil, fmt.Errorf("store.previous_key: %w", err)
		}
		enc.FallbackKeys = [][]byte{previous}
	}
	mw, err := middleware.NewEncryptionMiddleware(enc)
	if err != nil {
		return nil, err
	}
	return middleware.Wrap(store, mw), nil
}

// OpenArchive opens the loam tape archive under tape_dir.
func (s *Services) OpenArchive() (*loamadapter.Archive, error) {
	archive, err := loamadapter.Open(s.Config.TapeDir)
	if err != nil {
		return nil, fmt.Errorf("error opening tape archive: %w", err)
	}
	return archive, nil
}

// Close releases store connections.
func (s *Services) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}
