package pager

import (
	"strings"
	"sync"
	"time"
)

// Registry hands out per-session feed instances keyed by session and feed
// name, evicting ones that have gone untouched for the idle TTL. It lets
// the stateless HTTP layer keep one Feed per scrolling list per client.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	ttl     time.Duration
	done    chan struct{}
}

type registryEntry struct {
	value      interface{}
	lastAccess time.Time
}

// NewRegistry creates a registry whose janitor evicts entries idle for
// longer than ttl
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &Registry{
		entries: make(map[string]*registryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go r.janitor()
	return r
}

// Feed returns the feed for key, creating it with init on first use
func (r *Registry) Feed(key string, init func() *Feed) *Feed {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		if feed, ok := e.value.(*Feed); ok {
			e.lastAccess = time.Now()
			return feed
		}
	}

	feed := init()
	r.entries[key] = &registryEntry{value: feed, lastAccess: time.Now()}
	return feed
}

// Search returns the search feed for key, creating it with init on first use
func (r *Registry) Search(key string, init func() *SearchFeed) *SearchFeed {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		if feed, ok := e.value.(*SearchFeed); ok {
			e.lastAccess = time.Now()
			return feed
		}
	}

	feed := init()
	r.entries[key] = &registryEntry{value: feed, lastAccess: time.Now()}
	return feed
}

// Drop removes every entry whose key starts with prefix, used when a
// session ends
func (r *Registry) Drop(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.entries {
		if strings.HasPrefix(key, prefix) {
			delete(r.entries, key)
		}
	}
}

// Close stops the janitor
func (r *Registry) Close() {
	close(r.done)
}

// janitor periodically evicts idle entries
func (r *Registry) janitor() {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-r.ttl)
			r.mu.Lock()
			for key, e := range r.entries {
				if e.lastAccess.Before(cutoff) {
					delete(r.entries, key)
				}
			}
			r.mu.Unlock()
		}
	}
}
