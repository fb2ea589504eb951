// Package histcache keeps the last fetched submission history per problem
// on disk, so the history listing still works while the backend is briefly
// unreachable. Entries are stored as zstd-compressed JSON.
package histcache

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/Avadhutgiri/judge-cli/api"
)

type Cache struct {
	dir string
}

func New(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) path(problemID string) string {
	return filepath.Join(c.dir, url.PathEscape(problemID)+".json.zst")
}

// Put stores the history for a problem, replacing any previous snapshot.
func (c *Cache) Put(problemID string, entries []api.HistoryEntry) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(data, nil)
	enc.Close()

	tmp := c.path(problemID) + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return os.Rename(tmp, c.path(problemID))
}

// Get returns the stored history for a problem, or false when there is no
// usable snapshot. A corrupt snapshot counts as absent.
func (c *Cache) Get(problemID string) ([]api.HistoryEntry, bool) {
	compressed, err := os.ReadFile(c.path(problemID))
	if err != nil {
		return nil, false
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, false
	}
	defer dec.Close()

	data, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false
	}

	var entries []api.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}
