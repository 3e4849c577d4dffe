package feed

import (
	"context"
	"log"
	"sync"
	"time"
)

type key struct {
	visitor string
	kind    Kind
}

type entry struct {
	list  *PostList
	owner string
}

// Registry keeps one PostList per visitor and feed kind so a search over an
// already fetched list never goes back to the backend.
type Registry struct {
	backend Backend
	opts    Options

	mu    sync.Mutex
	lists map[key]entry
}

func NewRegistry(backend Backend, opts Options) *Registry {
	return &Registry{
		backend: backend,
		opts:    opts,
		lists:   make(map[key]entry),
	}
}

// Feed returns the visitor's all-posts list, creating it unloaded.
func (r *Registry) Feed(visitor string) *PostList {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{visitor: visitor, kind: KindAll}
	if e, ok := r.lists[k]; ok {
		return e.list
	}
	list := New(AllPosts(r.backend), r.backend, r.opts)
	r.lists[k] = entry{list: list}
	return list
}

// UserFeed returns the visitor's list of userID's posts. A list built for a
// different owner is closed and replaced.
func (r *Registry) UserFeed(visitor, userID string) *PostList {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{visitor: visitor, kind: KindMine}
	if e, ok := r.lists[k]; ok {
		if e.owner == userID {
			return e.list
		}
		e.list.Close()
	}
	list := New(UserPosts(r.backend, userID), r.backend, r.opts)
	r.lists[k] = entry{list: list, owner: userID}
	return list
}

func (r *Registry) Lookup(visitor string, kind Kind) (*PostList, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.lists[key{visitor: visitor, kind: kind}]
	if !ok {
		return nil, false
	}
	return e.list, true
}

// Drop closes and forgets every list held for visitor.
func (r *Registry) Drop(visitor string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, e := range r.lists {
		if k.visitor == visitor {
			e.list.Close()
			delete(r.lists, k)
		}
	}
}

// Sweep closes lists untouched for longer than ttl and returns how many went.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, e := range r.lists {
		if e.list.idleSince().Before(cutoff) {
			e.list.Close()
			delete(r.lists, k)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lists)
}

// Run sweeps idle lists every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(ttl); n > 0 {
				log.Printf("🧹 Closed %d idle post lists", n)
			}
		}
	}
}
