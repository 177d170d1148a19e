package loader

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	value  any
	loaded time.Time
}

// Cache holds decoded datasets by key. Concurrent loads of one key collapse into a
// single fetch, and every load carries the generation of its key at start: a load that
// finishes after the key was invalidated is handed to its callers but never stored.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	gens    map[string]uint64
	files   map[string][]string

	group singleflight.Group
}

// NewCache creates a cache whose entries expire after ttl. A zero ttl never expires.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
		gens:    make(map[string]uint64),
		files:   make(map[string][]string),
	}
}

// Fetch returns the cached value of key or runs load to produce it. files lists the
// dataset paths the value was built from, for InvalidateFile.
func Fetch[T any](ctx context.Context, c *Cache, key string, files []string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	if ent, ok := c.entries[key]; ok {
		if c.ttl == 0 || c.now().Sub(ent.loaded) < c.ttl {
			c.mu.Unlock()
			return ent.value.(T), nil
		}
		delete(c.entries, key)
	}
	gen := c.gens[key]
	c.files[key] = files
	c.mu.Unlock()

	v, err, _ := c.group.Do(fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		val, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if !c.commit(key, gen, val) {
			log.Debug().Str("dataset", key).Uint64("generation", gen).Msg("Discarding superseded dataset load")
		}
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func (c *Cache) commit(key string, gen uint64, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.entries[key] = cacheEntry{value: value, loaded: c.now()}
	return true
}

// Generation reports the current generation of key.
func (c *Cache) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// Invalidate drops key and supersedes any load of it still in flight.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked(key)
}

func (c *Cache) invalidateLocked(key string) {
	c.gens[key]++
	delete(c.entries, key)
}

// InvalidateFile invalidates every key built from the given dataset path.
func (c *Cache) InvalidateFile(file string) int {
	file = path.Clean(file)
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, files := range c.files {
		for _, f := range files {
			if path.Clean(f) == file {
				c.invalidateLocked(key)
				n++
				break
			}
		}
	}
	return n
}

// Purge invalidates everything.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.files {
		c.invalidateLocked(key)
	}
}
