package scanner

import (
	"container/list"
	"sync"

	"github.com/openquant/bwb-scanner/internal/models"
)

// ResultCache is a capacity-bounded LRU cache of scan results keyed by
// (ticker, expiry). Entries are published atomically: a stored slice is
// never mutated after Put, so readers observe either a complete prior result
// or a complete new one. Eviction is purely a performance policy.
//
// A capacity of zero or less disables the cache entirely.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	key       string
	positions []models.BWBPosition
}

// NewResultCache creates a ResultCache holding at most capacity entries.
func NewResultCache(capacity int) *ResultCache {
	return &ResultCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Key builds the cache key for a scan request. An empty expiry means an
// all-expiries scan.
func Key(ticker, expiry string) string {
	if expiry == "" {
		expiry = "all"
	}
	return ticker + "|" + expiry
}

// Get returns the cached result for key and marks it most recently used.
func (c *ResultCache) Get(key string) ([]models.BWBPosition, bool) {
	if c.capacity <= 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).positions, true
}

// Put stores the result for key, evicting the least recently used entry when
// over capacity. The caller must not mutate positions after handing it over.
func (c *ResultCache) Put(key string, positions []models.BWBPosition) {
	if c.capacity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).positions = positions
		return
	}

	elem := c.order.PushFront(&cacheEntry{key: key, positions: positions})
	c.entries[key] = elem

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
