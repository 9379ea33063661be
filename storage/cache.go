package storage

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"

	"search-analysis/models"
	"search-analysis/platform"
)

// FileSetKey identifies a set of input files by path, size and modification
// time, together with the registry version and any extra parameters that
// change how the files are interpreted.
func FileSetKey(paths []string, extra ...string) (string, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	d := xxhash.New()
	_, _ = d.WriteString("registry=" + strconv.Itoa(platform.RegistryVersion) + "\n")
	for _, e := range extra {
		_, _ = d.WriteString("extra=" + e + "\n")
	}
	for _, p := range sorted {
		info, err := os.Stat(p)
		if err != nil {
			return "", fmt.Errorf("cache: stat %q: %w", p, err)
		}
		_, _ = fmt.Fprintf(d, "%s\x1f%d\x1f%d\n", p, info.Size(), info.ModTime().UnixNano())
	}
	return fmt.Sprintf("dataset:%d:%016x", len(sorted), d.Sum64()), nil
}

// MemoryCache keeps compressed datasets in a freecache arena.
type MemoryCache struct {
	cache *freecache.Cache
	codec *Codec
	ttl   int
}

// NewDatasetCache returns a freecache backed cache, or a no-op one when
// disabled or sized at zero.
func NewDatasetCache(enabled bool, sizeMB, ttlSeconds int, codec *Codec) DatasetCache {
	if !enabled || sizeMB <= 0 || codec == nil {
		return &noopCache{}
	}
	return &MemoryCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		codec: codec,
		ttl:   ttlSeconds,
	}
}

func (c *MemoryCache) Get(key string) (models.Dataset, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	var d models.Dataset
	if err := c.codec.Decode(val, &d); err != nil {
		return nil, false
	}
	return d, true
}

// Set stores dataset under key. freecache rejects entries larger than 1/1024
// of its size; that error is returned so callers can log it.
func (c *MemoryCache) Set(key string, dataset models.Dataset) error {
	data, err := c.codec.Encode(dataset)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.cache.Set([]byte(key), data, c.ttl); err != nil {
		return fmt.Errorf("cache: set %s (%d bytes): %w", key, len(data), err)
	}
	return nil
}

// EntryCount is the number of live entries.
func (c *MemoryCache) EntryCount() int64 { return c.cache.EntryCount() }

type noopCache struct{}

func (n *noopCache) Get(_ string) (models.Dataset, bool)    { return nil, false }
func (n *noopCache) Set(_ string, _ models.Dataset) error { return nil }
