package lru

import (
	"container/list"
	"sync"
)

type entry struct {
	key   string
	value any
}

// LRUCache is a fixed-capacity map from canonical key to decoded value.
// A zero capacity disables it: every lookup misses and nothing is stored.
type LRUCache struct {
	capacity int
	items    map[string]*list.Element
	lru      *list.List
	mu       *sync.Mutex
}

func NewLRUCache(capacity int) *LRUCache {
	if capacity < 0 {
		capacity = 0
	}
	return &LRUCache{
		mu:       new(sync.Mutex),
		capacity: capacity,
		items:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

func (c *LRUCache) Enabled() bool {
	return c != nil && c.capacity > 0
}

func (c *LRUCache) Capacity() int {
	if c == nil {
		return 0
	}
	return c.capacity
}

// Get returns the value under key and marks it most recently used.
func (c *LRUCache) Get(key string) (any, bool) {
	if !c.Enabled() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return elem.Value.(*entry).value, true
}

func (c *LRUCache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *LRUCache) Set(key string, value any) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, exists := c.items[key]; exists {
		elem.Value.(*entry).value = value
		c.lru.MoveToFront(elem)
		return
	}
	c.items[key] = c.lru.PushFront(&entry{key: key, value: value})
	for c.lru.Len() > c.capacity {
		c.evict()
	}
}

func (c *LRUCache) Delete(key string) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, exists := c.items[key]; exists {
		c.lru.Remove(elem)
		delete(c.items, key)
	}
}

func (c *LRUCache) Purge() {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

func (c *LRUCache) Len() int {
	if !c.Enabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *LRUCache) evict() {
	elem := c.lru.Back()
	if elem != nil {
		c.lru.Remove(elem)
		delete(c.items, elem.Value.(*entry).key)
	}
}
