package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogme/identity"
	"blogme/models"
	"blogme/store"
)

func newTestEngine(user *identity.User, posts ...models.Post) (*Engine, *store.Memory, *fakeFeed) {
	mem := store.NewMemory()
	mem.Seed(posts...)
	f := newFakeFeed(posts...)
	e := NewEngine(mem, identity.Static{User: user}, f, newMemViewCache(), time.Hour)
	return e, mem, f
}

func TestEngineToggleLikeRequiresIdentity(t *testing.T) {
	e, _, _ := newTestEngine(nil, models.Post{ID: "p1"})

	assert.ErrorIs(t, e.ToggleLike(context.Background(), "p1"), ErrAuthRequired)
}

func TestEngineLikeCommentViewRoundTrip(t *testing.T) {
	e, mem, _ := newTestEngine(alice, models.Post{ID: "p1", Title: "A post"})
	ctx := context.Background()

	require.NoError(t, e.ToggleLike(ctx, "p1"))

	comment, err := e.AddComment(ctx, "p1", "Nice post")
	require.NoError(t, err)

	post, err := e.OpenPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.Views)
	assert.Equal(t, int64(1), post.Likes)
	require.Len(t, post.Comments, 1)

	require.NoError(t, e.RemoveComment(ctx, "p1", comment.ID))

	remote, err := mem.GetOne(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, remote.Comments)
	assert.Equal(t, int64(len(remote.LikedBy)), remote.Likes)
}

func TestEngineOpenPostAllowsAnonymous(t *testing.T) {
	e, mem, _ := newTestEngine(nil, models.Post{ID: "p1", Title: "A post"})

	post, err := e.OpenPost(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.Views)

	remote, _ := mem.GetOne(context.Background(), "p1")
	assert.Equal(t, AnonymousViewer, remote.LastViewedBy)
}

func TestEngineAddCommentRequiresIdentity(t *testing.T) {
	e, _, _ := newTestEngine(nil, models.Post{ID: "p1"})

	_, err := e.AddComment(context.Background(), "p1", "hello")
	assert.ErrorIs(t, err, ErrAuthRequired)
}
