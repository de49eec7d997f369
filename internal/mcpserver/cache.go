package mcpserver

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/edmoas/csdl"
)

// lruCache is a size-bounded, least-recently-used cache whose entries also
// expire after a per-entry TTL.
type lruCache[V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	index    map[string]*list.Element
	sweeping atomic.Bool
}

type lruItem[V any] struct {
	key     string
	value   V
	expires time.Time
}

func newLRUCache[V any](capacity int) *lruCache[V] {
	return &lruCache[V]{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

// modelCache holds read models for the session, keyed by makeCacheKey.
// Cached models are shared between tool calls; the converter and the
// validator never modify a model.
var modelCache = newLRUCache[*csdl.ReadResult](cfg.CacheMaxSize)

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.index[key]
	if !ok {
		return zero, false
	}
	item := el.Value.(*lruItem[V])
	if time.Now().After(item.expires) {
		c.remove(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return item.value, true
}

func (c *lruCache[V]) put(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := time.Now().Add(ttl)
	if el, ok := c.index[key]; ok {
		item := el.Value.(*lruItem[V])
		item.value, item.expires = value, expires
		c.order.MoveToFront(el)
		return
	}
	for c.order.Len() >= c.capacity && c.order.Len() > 0 {
		c.remove(c.order.Back())
	}
	c.index[key] = c.order.PushFront(&lruItem[V]{key: key, value: value, expires: expires})
}

// remove unlinks el. The caller holds mu.
func (c *lruCache[V]) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*lruItem[V]).key)
}

// sweep drops every expired entry.
func (c *lruCache[V]) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if now.After(el.Value.(*lruItem[V]).expires) {
			c.remove(el)
		}
		el = next
	}
}

// startSweeper runs sweep every interval until ctx is done. Only one
// sweeper runs at a time.
func (c *lruCache[V]) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeping.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeping.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *lruCache[V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.index)
}

func (c *lruCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
