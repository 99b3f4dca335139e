// Package roster resolves the list of devices to monitor. The remote API is
// authoritative; a local file keeps the last good copy for cold starts.
package roster

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/hamed0406/netcollector/internal/domain"
)

var (
	ErrFetch   = errors.New("roster fetch failed")
	ErrCache   = errors.New("roster cache unreadable")
	ErrPersist = errors.New("roster cache write failed")
)

// Source yields the authoritative device list.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Device, error)
}

// Cache persists the roster between runs.
type Cache interface {
	Load(ctx context.Context) ([]domain.Device, error)
	Save(ctx context.Context, devices []domain.Device) error
}

// Manager owns the current roster snapshot. The snapshot is replaced as a
// whole on refresh and never edited, so readers can keep using whatever
// they loaded.
type Manager struct {
	Logger *zap.Logger
	Source Source
	Cache  Cache

	current atomic.Pointer[[]domain.Device]
}

func NewManager(logger *zap.Logger, src Source, cache Cache) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{Logger: logger, Source: src, Cache: cache}
	empty := []domain.Device{}
	m.current.Store(&empty)
	return m
}

// Current returns the snapshot in effect. Callers must not modify it.
func (m *Manager) Current() []domain.Device {
	return *m.current.Load()
}

func (m *Manager) swap(devices []domain.Device) {
	if devices == nil {
		devices = []domain.Device{}
	}
	snap := slices.Clip(devices)
	m.current.Store(&snap)
}

// ResolveInitial loads the roster at startup: remote first (persisting it),
// then the cache, then an empty roster. It never fails.
func (m *Manager) ResolveInitial(ctx context.Context) []domain.Device {
	devices, err := m.fetchAndPersist(ctx)
	if err == nil {
		m.Logger.Info("roster_loaded", zap.String("source", "remote"), zap.Int("devices", len(devices)))
		m.swap(devices)
		return devices
	}
	m.Logger.Warn("roster_remote_failed", zap.Error(err))

	cached, err := m.Cache.Load(ctx)
	if err != nil {
		m.Logger.Error("roster_cache_failed", zap.Error(err))
		m.swap(nil)
		return []domain.Device{}
	}
	devices = m.normalize(cached)
	m.Logger.Info("roster_loaded", zap.String("source", "cache"), zap.Int("devices", len(devices)))
	m.swap(devices)
	return devices
}

// Refresh replaces the snapshot with a fresh remote roster. On fetch
// failure the current snapshot stays in place.
func (m *Manager) Refresh(ctx context.Context) error {
	devices, err := m.fetchAndPersist(ctx)
	if err != nil {
		m.Logger.Warn("roster_refresh_failed", zap.Error(err), zap.Int("kept_devices", len(m.Current())))
		return err
	}
	m.swap(devices)
	m.Logger.Info("roster_refreshed", zap.Int("devices", len(devices)))
	return nil
}

// fetchAndPersist returns the remote roster. A cache write failure is
// logged but does not discard a good fetch.
func (m *Manager) fetchAndPersist(ctx context.Context) ([]domain.Device, error) {
	raw, err := m.Source.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, ErrFetch) {
			err = errors.Join(ErrFetch, err)
		}
		return nil, err
	}
	devices := m.normalize(raw)
	if err := m.Cache.Save(ctx, devices); err != nil {
		m.Logger.Error("roster_persist_failed", zap.Error(err))
	}
	return devices, nil
}

func (m *Manager) normalize(in []domain.Device) []domain.Device {
	out, dropped := domain.NormalizeDevices(in)
	if dropped > 0 {
		m.Logger.Warn("roster_entries_dropped", zap.Int("dropped", dropped))
	}
	return out
}
