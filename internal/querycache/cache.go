package querycache

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// State of a cached read, delivered to subscribers on every transition.
type State int

const (
	// A fetch for the key has started.
	StateLoading State = iota
	// A fetch for the key has finished, successfully or not.
	StateSettled
	// The key was invalidated by a write; the next lookup refetches.
	StateInvalidated
)

// Subscriber observes key transitions.
type Subscriber func(key string, state State)

type entry struct {
	value interface{}
	stale bool
}

// Cache memoizes read operations keyed by operation identifier plus
// parameters. At most one fetch per key is in flight at a time; writes
// never mutate entries directly, they mark keys stale by prefix.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	subs    map[int]Subscriber
	nextSub int
	group   singleflight.Group
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		subs:    make(map[int]Subscriber),
	}
}

// Key builds a cache key from an operation identifier and its parameters.
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

// Subscribe registers fn for transition notifications and returns the
// function that removes it.
func (c *Cache) Subscribe(fn Subscriber) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Cache) notify(key string, state State) {
	c.mu.RLock()
	subs := make([]Subscriber, 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.RUnlock()
	for _, fn := range subs {
		fn(key, state)
	}
}

// Lookup returns the value stored under key, fetching it when the key is
// absent or stale. When enabled is false no fetch happens: the last stored
// value is returned if one exists, and pending reports that the read has
// not been answered by a fresh fetch.
func (c *Cache) Lookup(key string, enabled bool, fetch func() (interface{}, error)) (interface{}, bool, error) {
	c.mu.RLock()
	e := c.entries[key]
	c.mu.RUnlock()

	if e != nil && !e.stale {
		return e.value, false, nil
	}
	if !enabled {
		if e != nil {
			return e.value, true, nil
		}
		return nil, true, nil
	}

	c.notify(key, StateLoading)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = &entry{value: v}
		c.mu.Unlock()
		return v, nil
	})
	c.notify(key, StateSettled)
	if err != nil {
		return nil, false, err
	}
	return v, false, nil
}

// Invalidate marks every entry whose key starts with prefix as stale and
// tells subscribers. Entries are refetched on their next lookup, not here.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	var keys []string
	for k, e := range c.entries {
		if strings.HasPrefix(k, prefix) {
			e.stale = true
			keys = append(keys, k)
		}
	}
	c.mu.Unlock()
	for _, k := range keys {
		c.notify(k, StateInvalidated)
	}
}
