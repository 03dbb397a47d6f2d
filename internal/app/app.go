// Package app wires configuration, storage and the task store together.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/tgienger/tasker/internal/config"
	"github.com/tgienger/tasker/internal/db"
	"github.com/tgienger/tasker/internal/storage"
	"github.com/tgienger/tasker/internal/store"
)

// Settings persists small UI preferences such as the last used filter
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// App holds the opened backend and the task store built on top of it
type App struct {
	Config   *config.Config
	Store    *store.Store
	Settings Settings
	Logger   *log.Logger

	closers []func() error
}

// Open creates the backend selected by cfg and a store over it. The store is
// not loaded yet; call Load or let the TUI do it.
func Open(cfg *config.Config, logger *log.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	backend, err := a.openBackend()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Store = store.New(backend,
		store.WithKey(cfg.Storage.Key),
		store.WithTimeout(cfg.Storage.Timeout),
		store.WithLogger(logger),
	)
	if a.Settings == nil {
		a.Settings = newMemorySettings()
	}
	return a, nil
}

func (a *App) openBackend() (storage.Backend, error) {
	cfg := a.Config
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		database, err := db.New(db.Path(cfg.DataDir))
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, database.Close)
		a.Settings = database
		return database.Slot(), nil

	case config.BackendFile:
		return storage.NewFile(cfg.DataDir)

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Storage.Timeout,
		})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		r := storage.NewRedis(client, cfg.Redis.Prefix)
		a.closers = append(a.closers, r.Close)
		return r, nil

	case config.BackendMemory:
		return storage.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// Load performs the store's initial load
func (a *App) Load(ctx context.Context) {
	a.Store.Load(ctx)
}

// Close releases the backend
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

type memorySettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemorySettings() *memorySettings {
	return &memorySettings{values: make(map[string]string)}
}

func (m *memorySettings) GetSetting(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memorySettings) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
