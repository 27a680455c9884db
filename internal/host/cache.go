package host

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// cacheSchemaVersion invalidates every cached payload when the format
// changes.
const cacheSchemaVersion uint16 = 1

// Digest keys the disk cache by source content.
type Digest [32]byte

// DigestOf hashes the file content plus the options fingerprint, so a
// config change invalidates cached chunks.
func DigestOf(content []byte, optsFingerprint string) Digest {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})
	h.Write([]byte(optsFingerprint))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// CachePayload is the per-file manifest persisted between builds: the
// emitted chunk, the lualib features it uses, and enough metadata to
// validate the entry.
type CachePayload struct {
	Schema   uint16
	Path     string
	Lua      string
	Features []string
	Failed   bool
}

// DiskCache persists per-file compilation artifacts keyed by digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initialises the cache at the standard XDG location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "chunks" для удобства очистки
	return filepath.Join(c.dir, "chunks", hexKey+".mp")
}

// Put serialises and writes a payload atomically.
func (c *DiskCache) Put(key Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = cacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	data, err := msgpack.Marshal(payload)
	if err != nil {
		_ = f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads a payload; ok is false on miss or schema mismatch.
func (c *DiskCache) Get(key Digest) (*CachePayload, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	var payload CachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false
	}
	return &payload, true
}

// Clear removes all cached chunks.
func (c *DiskCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := os.RemoveAll(filepath.Join(c.dir, "chunks"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
