// Package rowcache stores rendered sixel rows on disk, keyed by fingerprint.
package rowcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/llehouerou/lsix/internal/errmsg"
)

const (
	rowsDirName = "rows"
	artifactExt = ".six"
)

// Cache is a directory of row artifacts. A nil *Cache is a valid, always
// missing cache.
type Cache struct {
	dir    string
	maxAge time.Duration
}

// Open creates the rows directory under baseDir.
func Open(baseDir string, maxAge time.Duration) (*Cache, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: no cache directory", errmsg.ErrCacheUnavailable)
	}

	dir := filepath.Join(baseDir, rowsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", errmsg.ErrCacheUnavailable, err)
	}

	return &Cache{dir: dir, maxAge: maxAge}, nil
}

// Dir returns the directory holding the artifacts.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+artifactExt)
}

// Get returns the artifact for key if it exists and is at least as new as
// every source modification time.
func (c *Cache) Get(key string, sources []time.Time) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	for _, mt := range sources {
		if mt.After(info.ModTime()) {
			return nil, false
		}
	}

	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil, false
	}

	// Touch the file to update mtime (keeps frequently used rows fresh)
	now := time.Now()
	_ = os.Chtimes(path, now, now) //nolint:errcheck // best-effort

	return data, true
}

// Put stores data under key. The artifact is written to a temporary file and
// renamed into place, so readers never see a partial row.
func (c *Cache) Put(key string, data []byte) error {
	if c == nil {
		return nil
	}

	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", errmsg.ErrCacheUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", errmsg.ErrCacheUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", errmsg.ErrCacheUnavailable, err)
	}
	if err := os.Rename(tmpName, c.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", errmsg.ErrCacheUnavailable, err)
	}
	return nil
}

// Prune removes artifacts and stale temporary files older than the maximum
// age and returns how many were removed.
func (c *Cache) Prune() int {
	if c == nil || c.maxAge <= 0 {
		return 0
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0
	}

	cutoff := time.Now().Add(-c.maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, artifactExt) && !strings.HasSuffix(name, ".tmp") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(c.dir, name)) == nil {
				removed++
			}
		}
	}
	return removed
}
