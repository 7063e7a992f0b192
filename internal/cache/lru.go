package cache

import (
	"container/list"
	"sync"
)

// defaultCapacity is the number of entries an LRU holds when none is given.
const defaultCapacity = 2048

type entry[K comparable, V any] struct {
	key K
	val V
}

// Stats is a snapshot of LRU counters.
type Stats struct {
	Gets      int `json:"gets"`
	Hits      int `json:"hits"`
	Puts      int `json:"puts"`
	Evictions int `json:"evictions"`
	Len       int `json:"len"`
	Capacity  int `json:"capacity"`
}

// LRU is a bounded least-recently-used map.
// It's safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	m        map[K]*list.Element
	ll       *list.List
	capacity int
	// stats
	puts      int
	gets      int
	hits      int
	evictions int
}

// NewLRU returns an LRU holding at most capacity entries. A capacity <= 0
// selects the default.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &LRU[K, V]{
		m:        make(map[K]*list.Element, capacity),
		ll:       list.New(),
		capacity: capacity,
	}
}

// Get returns the value for key and whether it was found.
// A hit moves the entry to the front.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	if el, ok := c.m[key]; ok {
		c.hits++
		c.ll.MoveToFront(el)
		return el.Value.(entry[K, V]).val, true
	}
	var zero V
	return zero, false
}

// Put stores val under key, evicting the least recently used entry when the
// cache is full.
func (c *LRU[K, V]) Put(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.puts++
	if el, ok := c.m[key]; ok {
		el.Value = entry[K, V]{key: key, val: val}
		c.ll.MoveToFront(el)
		return
	}

	c.m[key] = c.ll.PushFront(entry[K, V]{key: key, val: val})

	if c.ll.Len() > c.capacity {
		if tail := c.ll.Back(); tail != nil {
			delete(c.m, tail.Value.(entry[K, V]).key)
			c.ll.Remove(tail)
			c.evictions++
		}
	}
}

// Invalidate removes key if present. It does not count as an eviction.
func (c *LRU[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.m[key]; ok {
		delete(c.m, key)
		c.ll.Remove(el)
	}
}

// Clear drops every entry and resets the counters.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[K]*list.Element, c.capacity)
	c.ll.Init()
	c.puts, c.gets, c.hits, c.evictions = 0, 0, 0, 0
}

// Stats returns the counters, snapshotted under the lock.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Gets:      c.gets,
		Hits:      c.hits,
		Puts:      c.puts,
		Evictions: c.evictions,
		Len:       c.ll.Len(),
		Capacity:  c.capacity,
	}
}
