package cache

import (
	"github.com/atharv3903/metronav/internal/model"
)

// RouteKey identifies a query against one generation of the network. Answers
// computed on an older generation are never returned because the epoch is
// part of the key; they age out of the LRU.
type RouteKey struct {
	Start, End string
	Epoch      uint64
}

// Route is a cached answer.
type Route struct {
	Result   model.PathResult
	Explored int
}

// RouteCache remembers successful route answers.
type RouteCache struct {
	lru *LRU[RouteKey, Route]
}

func NewRouteCache(capacity int) *RouteCache {
	return &RouteCache{lru: NewLRU[RouteKey, Route](capacity)}
}

func (c *RouteCache) Get(k RouteKey) (Route, bool) {
	return c.lru.Get(k)
}

// Put stores r under k. Failed results are not cached.
func (c *RouteCache) Put(k RouteKey, r Route) {
	if !r.Result.OK() {
		return
	}
	c.lru.Put(k, r)
}

// Clear empties the cache and resets its counters.
func (c *RouteCache) Clear() {
	c.lru.Clear()
}

func (c *RouteCache) Stats() Stats {
	return c.lru.Stats()
}
