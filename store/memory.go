package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"blogme/models"
)

// Memory is an in-process Store with the same atomicity guarantees as
// the Mongo implementation. It backs tests and local development runs
// where no MongoDB is available.
type Memory struct {
	mu      sync.Mutex
	posts   map[string]models.Post
	subs    map[int]chan []models.Post
	nextSub int

	mutateErr error
}

func NewMemory() *Memory {
	return &Memory{
		posts: make(map[string]models.Post),
		subs:  make(map[int]chan []models.Post),
	}
}

// Seed inserts or replaces records without notifying subscribers.
func (s *Memory) Seed(posts ...models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range posts {
		s.posts[p.ID] = p.Clone()
	}
}

// FailNextMutate makes the next Mutate call fail with err, simulating a
// transport failure.
func (s *Memory) FailNextMutate(err error) {
	s.mu.Lock()
	s.mutateErr = err
	s.mu.Unlock()
}

func (s *Memory) GetOne(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (s *Memory) Mutate(_ context.Context, id string, m Mutation) (*models.Post, error) {
	s.mu.Lock()
	if err := s.mutateErr; err != nil {
		s.mutateErr = nil
		s.mu.Unlock()
		return nil, err
	}
	p, ok := s.posts[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	for f, d := range m.Inc {
		switch f {
		case FieldViews:
			p.Views += d
		case FieldLikes:
			p.Likes += d
		}
	}
	for f, v := range m.Set {
		switch f {
		case FieldLastViewedBy:
			p.LastViewedBy, _ = v.(string)
		case FieldLastViewedAt:
			p.LastViewedAt, _ = v.(time.Time)
		}
	}
	for f, v := range m.AddToSet {
		if f == FieldLikedBy {
			if uid, ok := v.(string); ok && !p.HasLiked(uid) {
				p.LikedBy = append(p.LikedBy, uid)
			}
		}
	}
	for f, v := range m.Push {
		if f == FieldComments {
			if c, ok := v.(models.Comment); ok {
				p.Comments = append(p.Comments, c)
			}
		}
	}
	for f, v := range m.Pull {
		switch f {
		case FieldLikedBy:
			if uid, ok := v.(string); ok {
				kept := p.LikedBy[:0]
				for _, id := range p.LikedBy {
					if id != uid {
						kept = append(kept, id)
					}
				}
				p.LikedBy = kept
			}
		case FieldComments:
			if c, ok := v.(models.Comment); ok {
				kept := p.Comments[:0]
				for _, existing := range p.Comments {
					if existing.ID != c.ID {
						kept = append(kept, existing)
					}
				}
				p.Comments = kept
			}
		}
	}

	s.posts[id] = p
	result := p.Clone()
	snapshot := s.snapshotLocked(0)
	subs := make([]chan []models.Post, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		// Replace a pending snapshot rather than blocking the mutator.
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
	return &result, nil
}

func (s *Memory) Subscribe(ctx context.Context, limit int64) (<-chan []models.Post, error) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	src := make(chan []models.Post, 1)
	s.subs[id] = src
	initial := s.snapshotLocked(limit)
	s.mu.Unlock()

	out := make(chan []models.Post, 1)
	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		}()

		out <- initial
		for {
			select {
			case snap := <-src:
				if limit > 0 && int64(len(snap)) > limit {
					snap = snap[:limit]
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *Memory) snapshotLocked(limit int64) []models.Post {
	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p.Clone())
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if limit > 0 && int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts
}
