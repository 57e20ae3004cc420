// Package engagement implements the interaction engines for a post's
// counters: view dedup counting, like toggling and the comment ledger.
// Every remote write is a single field-level atomic patch; local state
// moves optimistically and is reconciled with the store's answer.
package engagement

import (
	"context"
	"time"

	"blogme/identity"
	"blogme/models"
	"blogme/store"
)

// Engine is the facade the API layer talks to. It resolves the acting
// identity per call and dispatches to the engines.
type Engine struct {
	ids      identity.Provider
	feed     localFeed
	views    *ViewCounter
	likes    *LikeToggle
	comments *Ledger
}

func NewEngine(st store.Store, ids identity.Provider, f localFeed, cache ViewCache, viewWindow time.Duration) *Engine {
	return &Engine{
		ids:      ids,
		feed:     f,
		views:    NewViewCounter(st, f, cache, viewWindow),
		likes:    NewLikeToggle(st, f),
		comments: NewLedger(st, f),
	}
}

// OpenPost serves the post for a detail view and runs the view-dedup
// decision. Anonymous viewers are allowed.
func (e *Engine) OpenPost(ctx context.Context, postID string) (models.Post, error) {
	return e.views.Open(ctx, postID, e.ids.Current(ctx))
}

// ToggleLike flips the acting user's like on the post.
func (e *Engine) ToggleLike(ctx context.Context, postID string) error {
	user := e.ids.Current(ctx)
	if user == nil {
		return ErrAuthRequired
	}
	return e.likes.Toggle(ctx, postID, user.ID)
}

// AddComment appends a comment by the acting user.
func (e *Engine) AddComment(ctx context.Context, postID, text string) (models.Comment, error) {
	return e.comments.Add(ctx, postID, e.ids.Current(ctx), text)
}

// RemoveComment deletes one of the acting user's own comments.
func (e *Engine) RemoveComment(ctx context.Context, postID, commentID string) error {
	return e.comments.Remove(ctx, postID, e.ids.Current(ctx), commentID)
}
