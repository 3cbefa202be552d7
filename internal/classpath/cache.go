package classpath

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache keeps decoded manifests on disk, keyed by the SHA-256 of the source
// bytes, so large TOML classpaths are parsed once. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema   uint16
	Source   string
	Manifest Manifest
}

const cacheSchema uint16 = 1

// OpenCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewCache(filepath.Join(base, app))
}

// NewCache opens a cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key [sha256.Size]byte) string {
	return filepath.Join(c.dir, "manifests", hex.EncodeToString(key[:])+".mp")
}

// Load decodes the manifest at path, consulting the cache for TOML
// sources. A nil cache decodes directly.
func (c *Cache) Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classpath: %w", err)
	}
	if c == nil || filepath.Ext(path) != ExtTOML {
		return decodeBytes(data, path)
	}
	key := sha256.Sum256(data)
	if m, ok, err := c.get(key); err == nil && ok {
		return m, nil
	}
	m, err := decodeBytes(data, path)
	if err != nil {
		return nil, err
	}
	// a failed write only costs a re-parse next time
	_ = c.put(key, path, m)
	return m, nil
}

func (c *Cache) put(key [sha256.Size]byte, source string, m *Manifest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&cachePayload{Schema: cacheSchema, Source: source, Manifest: *m}); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

func (c *Cache) get(key [sha256.Size]byte) (*Manifest, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != cacheSchema {
		return nil, false, nil
	}
	return &payload.Manifest, true, nil
}
