package artifact

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore memoizes successful lookups of another Store. Misses and decode
// errors are not cached so a rebuilt artifact is picked up on the next call.
type CachedStore struct {
	next  Store
	cache *lru.Cache[string, Metadata]
	hits  atomic.Int64
}

// NewCachedStore wraps next with an LRU of the given size. A size of zero or
// less returns next unchanged.
func NewCachedStore(next Store, size int) (Store, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[string, Metadata](size)
	if err != nil {
		return nil, fmt.Errorf("artifact cache: %w", err)
	}
	return &CachedStore{next: next, cache: cache}, nil
}

func (c *CachedStore) Lookup(name string) (Metadata, error) {
	if meta, ok := c.cache.Get(name); ok {
		c.hits.Add(1)
		return meta, nil
	}
	meta, err := c.next.Lookup(name)
	if err != nil {
		return Metadata{}, err
	}
	c.cache.Add(name, meta)
	return meta, nil
}

// Hits returns how many lookups were served from the cache.
func (c *CachedStore) Hits() int64 {
	return c.hits.Load()
}
