package engagement

import (
	"context"
	"sync"

	"blogme/models"
	"blogme/store"
)

// fakeFeed is a deterministic localFeed: a plain map with no snapshot
// goroutine behind it.
type fakeFeed struct {
	mu    sync.Mutex
	posts map[string]models.Post
}

func newFakeFeed(posts ...models.Post) *fakeFeed {
	f := &fakeFeed{posts: make(map[string]models.Post)}
	for _, p := range posts {
		p.Normalize()
		f.posts[p.ID] = p
	}
	return f
}

func (f *fakeFeed) Get(id string) (models.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return models.Post{}, false
	}
	return p.Clone(), true
}

func (f *fakeFeed) Apply(id string, patch func(*models.Post)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return false
	}
	c := p.Clone()
	patch(&c)
	f.posts[id] = c
	return true
}

// countingStore wraps a Store and counts remote calls, so tests can
// assert that local guards never reach the network.
type countingStore struct {
	store.Store
	mu      sync.Mutex
	mutates int
	reads   int
}

func (s *countingStore) GetOne(ctx context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return s.Store.GetOne(ctx, id)
}

func (s *countingStore) Mutate(ctx context.Context, id string, m store.Mutation) (*models.Post, error) {
	s.mu.Lock()
	s.mutates++
	s.mu.Unlock()
	return s.Store.Mutate(ctx, id, m)
}

func (s *countingStore) mutateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutates
}

// memViewCache is an in-memory ViewCache for tests.
type memViewCache struct {
	entries map[string]int64
}

func newMemViewCache() *memViewCache {
	return &memViewCache{entries: make(map[string]int64)}
}

func (c *memViewCache) Get(key string) (int64, bool, error) {
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memViewCache) Put(key string, value int64) error {
	c.entries[key] = value
	return nil
}
