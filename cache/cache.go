// Package cache is the request-scoped data-fetching cache. Entries carry a
// query group ("flashcards", "generation-requests") so a successful mutation
// can invalidate everything a dependent page rendered from.
package cache

import (
	"sync"
	"time"
)

// Groups used across the web layer.
const (
	GroupFlashcards         = "flashcards"
	GroupGenerationRequests = "generation-requests"
)

type entry struct {
	group     string
	value     any
	fetchedAt time.Time
}

type call struct {
	done chan struct{}
	val  any
	err  error
}

// Query caches fetch results and deduplicates concurrent identical fetches:
// while one fetch for a key is in flight, other callers wait for its result
// instead of issuing their own request.
type Query struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[string]entry
	inflight map[string]*call
}

// NewQuery creates a cache whose entries go stale after ttl.
func NewQuery(ttl time.Duration) *Query {
	return &Query{
		ttl:      ttl,
		entries:  make(map[string]entry),
		inflight: make(map[string]*call),
	}
}

// Do returns the cached value for key, or runs fetch and caches its result
// under the given group. Errors are returned to every waiter and not cached.
func (q *Query) Do(key, group string, fetch func() (any, error)) (any, error) {
	q.mu.Lock()
	if e, ok := q.entries[key]; ok {
		if time.Since(e.fetchedAt) < q.ttl {
			q.mu.Unlock()
			return e.value, nil
		}
		// Stale entries are dropped on sight so the map does not grow with
		// every distinct query ever made.
		delete(q.entries, key)
	}
	if c, ok := q.inflight[key]; ok {
		q.mu.Unlock()
		<-c.done
		return c.val, c.err
	}
	c := &call{done: make(chan struct{})}
	q.inflight[key] = c
	q.mu.Unlock()

	c.val, c.err = fetch()

	q.mu.Lock()
	delete(q.inflight, key)
	if c.err == nil {
		q.entries[key] = entry{group: group, value: c.val, fetchedAt: time.Now()}
	}
	q.mu.Unlock()

	close(c.done)
	return c.val, c.err
}

// InvalidateGroup drops every cached entry in the group, forcing the next
// read to refetch.
func (q *Query) InvalidateGroup(group string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for key, e := range q.entries {
		if e.group == group {
			delete(q.entries, key)
		}
	}
}

// Len reports the number of live entries.
func (q *Query) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
