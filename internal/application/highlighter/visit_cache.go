package highlighter

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bnema/linkmark/internal/domain/entity"
)

// LookupFunc resolves the visit data for one normalized URL.
type LookupFunc func(ctx context.Context, url string) (entity.VisitData, error)

// VisitCache memoizes visit data per normalized URL and collapses concurrent
// lookups for the same URL into one in-flight query.
type VisitCache struct {
	mu      sync.Mutex
	entries map[string]entity.VisitData
	pending map[string]int
	gen     uint64

	group   singleflight.Group
	lookup  LookupFunc
	metrics *Metrics
}

func NewVisitCache(lookup LookupFunc, metrics *Metrics) *VisitCache {
	return &VisitCache{
		entries: make(map[string]entity.VisitData),
		pending: make(map[string]int),
		lookup:  lookup,
		metrics: metrics,
	}
}

// Get returns cached data without blocking, joins an in-flight lookup for
// url, or starts one. Every caller counts toward the pending entry for url
// from before the lookup starts until it stops waiting, whatever the
// outcome. Callers sharing a lookup receive the same data or the same error.
func (c *VisitCache) Get(ctx context.Context, url string) (entity.VisitData, error) {
	c.mu.Lock()
	if v, ok := c.entries[url]; ok {
		c.mu.Unlock()
		c.metrics.cacheHit()
		return v, nil
	}

	gen := c.gen
	c.pending[url]++
	lookupCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(url, func() (any, error) {
		v, err := c.lookup(lookupCtx, url)
		if err == nil {
			c.mu.Lock()
			if c.gen == gen {
				c.entries[url] = v
			}
			c.mu.Unlock()
		}
		return v, err
	})
	c.mu.Unlock()
	defer c.release(url, gen)

	select {
	case res := <-ch:
		if res.Err != nil {
			return entity.VisitData{}, res.Err
		}
		return res.Val.(entity.VisitData), nil
	case <-ctx.Done():
		return entity.VisitData{}, ctx.Err()
	}
}

// release drops one caller from the pending entry for url. Entries from
// before the last Clear are already gone.
func (c *VisitCache) release(url string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	if c.pending[url] <= 1 {
		delete(c.pending, url)
		return
	}
	c.pending[url]--
}

// Peek returns cached data for url, if any.
func (c *VisitCache) Peek(url string) (entity.VisitData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[url]
	return v, ok
}

// Clear drops every cached and pending entry. Lookups already in flight
// still answer their callers, but their results are not stored.
func (c *VisitCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for url := range c.pending {
		c.group.Forget(url)
	}
	c.entries = make(map[string]entity.VisitData)
	c.pending = make(map[string]int)
}

// Len returns the number of cached URLs.
func (c *VisitCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Pending returns the number of URLs with callers waiting on a lookup.
func (c *VisitCache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
