// Package feed keeps a normalized in-memory view of the posts
// collection in step with the store's snapshot stream, and exposes the
// pure category/search projection over it.
package feed

import (
	"context"
	"sync"

	"blogme/logger"
	"blogme/models"
	"blogme/store"
)

// Sync consumes full-collection snapshots pushed by the store, maps
// every record through author normalization and default-fill, and
// republishes the result to registered listeners. It also accepts local
// optimistic patches from the engagement engines; the next remote
// snapshot simply replaces them (whole-collection replace, no diffing).
type Sync struct {
	store store.Store
	limit int64

	mu        sync.RWMutex
	posts     []models.Post
	listeners map[int]func([]models.Post)
	nextID    int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSync(st store.Store, limit int64) *Sync {
	return &Sync{
		store:     st,
		limit:     limit,
		listeners: make(map[int]func([]models.Post)),
	}
}

// Start subscribes to the store and begins processing snapshots. It
// returns once the subscription is established.
func (s *Sync) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	snapshots, err := s.store.Subscribe(ctx, s.limit)
	if err != nil {
		cancel()
		return err
	}
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		for snap := range snapshots {
			for i := range snap {
				snap[i].Normalize()
			}
			s.mu.Lock()
			s.posts = snap
			s.mu.Unlock()
			s.publish()
		}
		logger.Log.Debug("feed subscription closed")
	}()
	return nil
}

// Close tears the subscription down; no snapshot is processed after it
// returns.
func (s *Sync) Close() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// Posts returns a deep copy of the current collection.
func (s *Sync) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, len(s.posts))
	for i, p := range s.posts {
		out[i] = p.Clone()
	}
	return out
}

// Get returns a copy of one post from the local collection.
func (s *Sync) Get(id string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.Post{}, false
}

// Apply patches the local copy of one post and republishes. It reports
// whether the post was present; a missing post is not an error, the
// record may simply fall outside the current page.
func (s *Sync) Apply(id string, patch func(*models.Post)) bool {
	s.mu.Lock()
	found := false
	for i := range s.posts {
		if s.posts[i].ID == id {
			p := s.posts[i].Clone()
			patch(&p)
			s.posts[i] = p
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.publish()
	}
	return found
}

// OnUpdate registers a listener called with a copy of the collection on
// every republish. The returned function unregisters it.
func (s *Sync) OnUpdate(fn func([]models.Post)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Sync) publish() {
	s.mu.RLock()
	snapshot := make([]models.Post, len(s.posts))
	for i, p := range s.posts {
		snapshot[i] = p.Clone()
	}
	fns := make([]func([]models.Post), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}
