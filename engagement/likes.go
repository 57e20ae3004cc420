package engagement

import (
	"context"
	"errors"

	"blogme/logger"
	"blogme/models"
	"blogme/store"
)

// LikeToggle flips a user's membership in a post's liked_by set. The
// set mutation and the counter delta travel in one atomic patch, which
// is what keeps likes == |liked_by| under concurrent toggles from other
// clients. Per (post, user) at most one toggle is in flight; a request
// arriving during the flight is coalesced into a single follow-up.
type LikeToggle struct {
	store store.Store
	feed  localFeed

	flights flightTable
}

func NewLikeToggle(st store.Store, f localFeed) *LikeToggle {
	return &LikeToggle{store: st, feed: f}
}

// Toggle likes the post if userID is not in liked_by, unlikes it
// otherwise. A coalesced request returns nil immediately; its toggle
// runs after the in-flight one completes.
func (t *LikeToggle) Toggle(ctx context.Context, postID, userID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	key := postID + "|" + userID
	if !t.flights.acquire(key) {
		return nil
	}

	err := t.toggleOnce(ctx, postID, userID)
	for t.flights.release(key) {
		err = t.toggleOnce(ctx, postID, userID)
	}
	return err
}

func (t *LikeToggle) toggleOnce(ctx context.Context, postID, userID string) error {
	// Direction comes from the local copy when the post is in the synced
	// window, from a remote read otherwise.
	before, ok := t.feed.Get(postID)
	if !ok {
		remote, err := t.store.GetOne(ctx, postID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				logger.Log.Infof("like toggle on vanished post %s", postID)
				return nil
			}
			return &TransportError{Op: "like toggle", Err: err}
		}
		remote.Normalize()
		before = *remote
	}

	liked := before.HasLiked(userID)

	var m store.Mutation
	if liked {
		m = store.Mutation{
			Pull: map[string]any{store.FieldLikedBy: userID},
			Inc:  map[string]int64{store.FieldLikes: -1},
		}
	} else {
		m = store.Mutation{
			AddToSet: map[string]any{store.FieldLikedBy: userID},
			Inc:      map[string]int64{store.FieldLikes: 1},
		}
	}

	// Optimistic transition, replaced by the server-confirmed values
	// once the mutation lands.
	t.feed.Apply(postID, func(p *models.Post) {
		if liked {
			kept := p.LikedBy[:0]
			for _, id := range p.LikedBy {
				if id != userID {
					kept = append(kept, id)
				}
			}
			p.LikedBy = kept
			p.Likes--
		} else {
			p.LikedBy = append(p.LikedBy, userID)
			p.Likes++
		}
	})

	confirmed, err := t.store.Mutate(ctx, postID, m)
	if err != nil {
		t.feed.Apply(postID, func(p *models.Post) {
			p.Likes = before.Likes
			p.LikedBy = append([]string(nil), before.LikedBy...)
		})
		if errors.Is(err, store.ErrNotFound) {
			logger.Log.Infof("like toggle on vanished post %s", postID)
			return nil
		}
		return &TransportError{Op: "like toggle", Err: err}
	}

	// Adopt the confirmed counters; they fold in any interleaved toggles
	// by other clients.
	t.feed.Apply(postID, func(p *models.Post) {
		p.Likes = confirmed.Likes
		p.LikedBy = append([]string(nil), confirmed.LikedBy...)
	})
	return nil
}
