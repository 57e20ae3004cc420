package engagement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"blogme/identity"
	"blogme/logger"
	"blogme/models"
	"blogme/store"
)

// Ledger appends and deletes comments optimistically. The provisional
// record shows up locally at once; the store's answer is authoritative
// and replaces the local list on confirmation.
type Ledger struct {
	store store.Store
	feed  localFeed
	now   func() time.Time
}

func NewLedger(st store.Store, f localFeed) *Ledger {
	return &Ledger{store: st, feed: f, now: time.Now}
}

// Add validates and appends a comment by user to the post. The comment
// id is generated locally for optimistic display; once the append is
// confirmed the store's list is adopted wholesale.
func (l *Ledger) Add(ctx context.Context, postID string, user *identity.User, text string) (models.Comment, error) {
	if user == nil {
		return models.Comment{}, ErrAuthRequired
	}
	if text == "" {
		return models.Comment{}, &ValidationError{Reason: "comment text is empty"}
	}
	if len([]rune(text)) > models.MaxCommentLength {
		return models.Comment{}, &ValidationError{Reason: "comment text exceeds length bound"}
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		Text:      text,
		UserID:    user.ID,
		UserName:  user.DisplayName,
		UserPhoto: user.PhotoURL,
		CreatedAt: l.now(),
	}

	l.feed.Apply(postID, func(p *models.Post) {
		p.Comments = append(p.Comments, comment)
	})

	confirmed, err := l.store.Mutate(ctx, postID, store.Mutation{
		Push: map[string]any{store.FieldComments: comment},
	})
	if err != nil {
		l.feed.Apply(postID, func(p *models.Post) {
			p.Comments = withoutComment(p.Comments, comment.ID)
		})
		if errors.Is(err, store.ErrNotFound) {
			logger.Log.Infof("comment add on vanished post %s", postID)
			return models.Comment{}, nil
		}
		return models.Comment{}, &TransportError{Op: "comment add", Err: err}
	}

	l.feed.Apply(postID, func(p *models.Post) {
		p.Comments = append([]models.Comment(nil), confirmed.Comments...)
	})
	return comment, nil
}

// Remove deletes the comment with the given id. Only the commenting
// identity may delete it; the ownership check runs locally and a
// failing check never reaches the network.
func (l *Ledger) Remove(ctx context.Context, postID string, user *identity.User, commentID string) error {
	if user == nil {
		return ErrAuthRequired
	}

	post, ok := l.feed.Get(postID)
	if !ok {
		remote, err := l.store.GetOne(ctx, postID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				logger.Log.Infof("comment remove on vanished post %s", postID)
				return nil
			}
			return &TransportError{Op: "comment remove", Err: err}
		}
		remote.Normalize()
		post = *remote
	}

	target, idx := post.CommentByID(commentID)
	if target == nil {
		// Already gone, nothing to do.
		return nil
	}
	if target.UserID != user.ID {
		return ErrPermissionDenied
	}
	removed := *target

	l.feed.Apply(postID, func(p *models.Post) {
		p.Comments = withoutComment(p.Comments, commentID)
	})

	confirmed, err := l.store.Mutate(ctx, postID, store.Mutation{
		Pull: map[string]any{store.FieldComments: removed},
	})
	if err != nil {
		// Restore at the original position.
		l.feed.Apply(postID, func(p *models.Post) {
			at := idx
			if at > len(p.Comments) {
				at = len(p.Comments)
			}
			rest := append([]models.Comment{removed}, p.Comments[at:]...)
			p.Comments = append(p.Comments[:at], rest...)
		})
		if errors.Is(err, store.ErrNotFound) {
			logger.Log.Infof("comment remove on vanished post %s", postID)
			return nil
		}
		return &TransportError{Op: "comment remove", Err: err}
	}

	l.feed.Apply(postID, func(p *models.Post) {
		p.Comments = append([]models.Comment(nil), confirmed.Comments...)
	})
	return nil
}

func withoutComment(comments []models.Comment, id string) []models.Comment {
	kept := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return kept
}
