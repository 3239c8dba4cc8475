package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PageEntry records when a rendered page was stored so age-based purging can
// decide expiry without touching the body.
type PageEntry struct {
	URL     string    `json:"url"`
	SavedAt time.Time `json:"saved_at"`
}

// PageCache stores rendered page HTML on disk as <key>.meta.json and
// <key>.html where key is sha256(url). It is a simple, deterministic cache;
// a hit skips launching the browser entirely. No eviction policy beyond
// age purge and explicit clear.
type PageCache struct {
	Dir string
}

func (c *PageCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, 0o755)
}

func (c *PageCache) key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

func (c *PageCache) metaPath(key string) string { return filepath.Join(c.Dir, key+".meta.json") }
func (c *PageCache) htmlPath(key string) string { return filepath.Join(c.Dir, key+".html") }

// Load returns the cached rendered HTML for url, if present.
func (c *PageCache) Load(_ context.Context, url string) (string, error) {
	if err := c.ensureDir(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(c.htmlPath(c.key(url)))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Save stores a rendered page to disk, body first so a crash between writes
// leaves no meta pointing at a missing body.
func (c *PageCache) Save(_ context.Context, url string, html string) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	key := c.key(url)
	if err := os.WriteFile(c.htmlPath(key), []byte(html), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	meta := PageEntry{URL: url, SavedAt: time.Now().UTC()}
	tmp := c.metaPath(key) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create meta: %w", err)
	}
	if err := json.NewEncoder(f).Encode(&meta); err != nil {
		f.Close()
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, c.metaPath(key))
}

// ClearDir removes the directory and all contents. It recreates the directory
// afterwards to leave a valid empty cache location.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// PurgeByAge removes page cache entries older than maxAge. It inspects
// <key>.meta.json for the SavedAt timestamp and deletes both meta and the
// corresponding <key>.html when expired.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".meta.json") {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable
		}
		var e PageEntry
		if err := json.Unmarshal(b, &e); err != nil {
			return nil // skip malformed
		}
		if now.Sub(e.SavedAt) <= maxAge {
			return nil
		}
		removed++
		_ = os.Remove(path)
		base := strings.TrimSuffix(path, ".meta.json")
		_ = os.Remove(base + ".html")
		return nil
	})
	return removed, err
}
