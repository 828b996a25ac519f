package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when CachePayload format changes.
const cacheSchemaVersion uint16 = 1

// Digest is a content hash key for cache entries.
type Digest [sha256.Size]byte

// HashInput derives a cache key from the source text and the target it is
// legalized for.
func HashInput(src, targetName string, regBits, vecBits int) Digest {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00", targetName, regBits, vecBits)
	h.Write([]byte(src))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// CachePayload stores the legalized output for one (input, target) pair.
type CachePayload struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	Target string
	Output string
}

// DiskCache stores legalized IR dumps keyed by Digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes a disk cache at the standard user cache
// location for the given application name.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes a disk cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload, replacing any existing entry.
func (c *DiskCache) Put(key Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = cacheSchemaVersion
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}
	path := c.pathFor(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	// Rename so readers never observe a partial entry.
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to publish cache entry: %w", err)
	}
	return nil
}

// Get looks up a payload. The second result is false on a miss; entries
// with a stale schema are treated as misses.
func (c *DiskCache) Get(key Digest) (*CachePayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	var payload CachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		// A corrupt entry is a miss, not an error.
		return nil, false, nil
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}
