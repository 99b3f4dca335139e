package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hamed0406/netcollector/internal/domain"
)

// FileCache keeps the last good roster on disk as a pretty-printed JSON array.
type FileCache struct {
	Path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{Path: path}
}

func (c *FileCache) Load(ctx context.Context) ([]domain.Device, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCache, err)
	}
	var devices []domain.Device
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrCache, c.Path, err)
	}
	return devices, nil
}

// Save replaces the cache file. The data goes to a temp file in the same
// directory first and is renamed over the old file, so readers see either
// the previous roster or the new one.
func (c *FileCache) Save(ctx context.Context, devices []domain.Device) error {
	if devices == nil {
		devices = []domain.Device{}
	}
	data, err := json.MarshalIndent(devices, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: chmod: %w", ErrPersist, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %w", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrPersist, err)
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("%w: rename: %w", ErrPersist, err)
	}
	return nil
}
