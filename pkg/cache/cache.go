// Package cache persists computed partition collections on disk, keyed by
// graph identity, so repeated compilations of an unchanged model skip the
// partitioning passes.
package cache

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"

	"github.com/dd0wney/cluso-offload/pkg/logging"
	"github.com/dd0wney/cluso-offload/pkg/metrics"
	"github.com/dd0wney/cluso-offload/pkg/offload"
)

const (
	entryVersion = byte(1)
	entrySuffix  = ".partitions"
	headerSize   = 5 // version byte + crc32 of the compressed payload
)

// ErrCorruptEntry means a cache entry failed its version or checksum check
var ErrCorruptEntry = errors.New("corrupt cache entry")

// Cache is an on-disk partition cache. One file per graph identity; entries
// are snappy-compressed JSON with a crc32 integrity check, so a torn write
// reads back as a miss-with-error rather than bad partitions.
type Cache struct {
	dir string
	log logging.Logger
}

// New opens (creating if needed) a cache rooted at dir
func New(dir string, log logging.Logger) (*Cache, error) {
	if log == nil {
		log = logging.DefaultLogger()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Cache{dir: dir, log: log}, nil
}

type entry struct {
	Session    string                     `json:"session"`
	Identity   string                     `json:"identity"`
	CreatedAt  int64                      `json:"created_at"`
	Partitions offload.SubGraphCollection `json:"partitions"`
}

// Put stores the partition collection under the graph identity
func (c *Cache) Put(session uuid.UUID, identity string, parts offload.SubGraphCollection) error {
	e := entry{
		Session:    session.String(),
		Identity:   identity,
		CreatedAt:  time.Now().Unix(),
		Partitions: parts,
	}
	data, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	compressed := snappy.Encode(nil, data)
	buf := make([]byte, headerSize+len(compressed))
	buf[0] = entryVersion
	binary.BigEndian.PutUint32(buf[1:headerSize], crc32.ChecksumIEEE(compressed))
	copy(buf[headerSize:], compressed)

	path := c.entryPath(identity)
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	metrics.Default().CacheWrites.Inc()
	c.log.Debug("partition cache entry written",
		logging.Identity(identity),
		logging.Count(len(parts)))
	return nil
}

// Get loads the partition collection for the graph identity. The second
// return value reports whether an entry was found.
func (c *Cache) Get(identity string) (offload.SubGraphCollection, bool, error) {
	buf, err := os.ReadFile(c.entryPath(identity))
	if err != nil {
		if os.IsNotExist(err) {
			metrics.Default().CacheMisses.Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	if len(buf) < headerSize || buf[0] != entryVersion {
		return nil, false, fmt.Errorf("%w: %s", ErrCorruptEntry, identity)
	}
	compressed := buf[headerSize:]
	if crc32.ChecksumIEEE(compressed) != binary.BigEndian.Uint32(buf[1:headerSize]) {
		return nil, false, fmt.Errorf("%w: checksum mismatch for %s", ErrCorruptEntry, identity)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}

	metrics.Default().CacheHits.Inc()
	return e.Partitions, true, nil
}

// Invalidate removes the entry for the graph identity, if present
func (c *Cache) Invalidate(identity string) error {
	err := os.Remove(c.entryPath(identity))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache entry: %w", err)
	}
	return nil
}

// entryPath sanitizes the identity into a filesystem-safe file name
func (c *Cache) entryPath(identity string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, identity)
	return filepath.Join(c.dir, sanitized+entrySuffix)
}
