package engagement

import (
	"context"
	"errors"
	"time"

	"blogme/identity"
	"blogme/logger"
	"blogme/models"
	"blogme/store"
)

// AnonymousViewer is recorded as last_viewed_by for unauthenticated
// views. Anonymous viewers carry no stable server-visible identity, so
// they are deduped by the local window alone.
const AnonymousViewer = "anonymous"

const viewKeyPrefix = "lastView_"

// ViewCache is the persisted local key-value store holding one
// epoch-millisecond timestamp per post.
type ViewCache interface {
	Get(key string) (int64, bool, error)
	Put(key string, value int64) error
}

// ViewCounter decides, per post and per local client, whether opening a
// post counts a view, and issues the atomic increment when it does. A
// failed increment is accepted data loss: it is logged, never retried,
// and never blocks the viewer from the content.
type ViewCounter struct {
	store  store.Store
	feed   localFeed
	cache  ViewCache
	window time.Duration
	now    func() time.Time
}

// localFeed is the slice of feed.Sync the engines need: the local copy
// of the collection plus optimistic patching.
type localFeed interface {
	Get(id string) (models.Post, bool)
	Apply(id string, patch func(*models.Post)) bool
}

func NewViewCounter(st store.Store, f localFeed, cache ViewCache, window time.Duration) *ViewCounter {
	if window <= 0 {
		window = time.Hour
	}
	return &ViewCounter{store: st, feed: f, cache: cache, window: window, now: time.Now}
}

// Open resolves the post for display and applies the dedup decision: a
// view counts when no local record exists for the post, when the window
// has elapsed since the local record, or when the remote record was last
// viewed by a different authenticated identity.
func (v *ViewCounter) Open(ctx context.Context, postID string, user *identity.User) (models.Post, error) {
	remote, err := v.store.GetOne(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Post{}, err
		}
		// The read failed but the content may still be served from the
		// local collection. The increment is skipped for this open.
		if local, ok := v.feed.Get(postID); ok {
			logger.Log.Warnf("view read for post %s failed, serving local copy: %v", postID, err)
			return local, nil
		}
		return models.Post{}, &TransportError{Op: "open post", Err: err}
	}
	remote.Normalize()

	if v.shouldCount(postID, user, remote) {
		v.count(ctx, postID, user)
	}

	if local, ok := v.feed.Get(postID); ok {
		return local, nil
	}
	return *remote, nil
}

func (v *ViewCounter) shouldCount(postID string, user *identity.User, remote *models.Post) bool {
	ts, ok, err := v.cache.Get(viewKeyPrefix + postID)
	if err != nil {
		logger.Log.Warnf("view cache read failed for post %s: %v", postID, err)
		ok = false
	}
	if !ok {
		return true
	}
	if v.now().Sub(time.UnixMilli(ts)) > v.window {
		return true
	}
	// Within the window a different authenticated viewer still counts.
	// The signal only exists once some viewer has been recorded.
	return user != nil && remote.LastViewedBy != "" && remote.LastViewedBy != user.ID
}

func (v *ViewCounter) count(ctx context.Context, postID string, user *identity.User) {
	now := v.now()

	// The local record is refreshed whether or not the remote increment
	// lands, so a flaky network cannot turn one open into many counts.
	if err := v.cache.Put(viewKeyPrefix+postID, now.UnixMilli()); err != nil {
		logger.Log.Warnf("view cache write failed for post %s: %v", postID, err)
	}

	viewer := AnonymousViewer
	if user != nil {
		viewer = user.ID
	}

	v.feed.Apply(postID, func(p *models.Post) {
		p.Views++
		p.LastViewedBy = viewer
		p.LastViewedAt = now
	})

	confirmed, err := v.store.Mutate(ctx, postID, store.Mutation{
		Inc: map[string]int64{store.FieldViews: 1},
		Set: map[string]any{
			store.FieldLastViewedBy: viewer,
			store.FieldLastViewedAt: now,
		},
	})
	if err != nil {
		// Swallowed: a lost view count must never surface to the viewer.
		logger.Log.Warnf("view increment for post %s failed: %v", postID, err)
		return
	}
	v.feed.Apply(postID, func(p *models.Post) {
		p.Views = confirmed.Views
		p.LastViewedBy = confirmed.LastViewedBy
		p.LastViewedAt = confirmed.LastViewedAt
	})
}
