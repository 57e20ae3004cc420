package feed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogme/feed"
	"blogme/models"
	"blogme/store"
)

func waitSnapshot(t *testing.T, ch <-chan []models.Post) []models.Post {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return nil
	}
}

func startSync(t *testing.T, st store.Store, limit int64) (*feed.Sync, chan []models.Post) {
	t.Helper()
	s := feed.NewSync(st, limit)
	updates := make(chan []models.Post, 16)
	s.OnUpdate(func(posts []models.Post) {
		updates <- posts
	})
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)
	return s, updates
}

func TestSyncNormalizesSnapshotRecords(t *testing.T) {
	st := store.NewMemory()
	st.Seed(models.Post{
		ID:           "p1",
		Title:        "Legacy record",
		CreatedAt:    time.Now(),
		LegacyAuthor: &models.AuthorRef{UID: "u1", DisplayName: "Alice"},
	})

	_, updates := waitStarted(t, st)

	snap := waitSnapshot(t, updates)
	require.Len(t, snap, 1)
	assert.Equal(t, "Alice", snap[0].AuthorName)
	assert.Equal(t, "u1", snap[0].AuthorID)
	assert.NotNil(t, snap[0].LikedBy)
	assert.NotNil(t, snap[0].Comments)
}

func waitStarted(t *testing.T, st store.Store) (*feed.Sync, chan []models.Post) {
	return startSync(t, st, 0)
}

func TestSyncOrdersByCreatedAtDescending(t *testing.T) {
	st := store.NewMemory()
	now := time.Now()
	st.Seed(
		models.Post{ID: "old", CreatedAt: now.Add(-time.Hour)},
		models.Post{ID: "new", CreatedAt: now},
	)

	_, updates := waitStarted(t, st)

	snap := waitSnapshot(t, updates)
	require.Len(t, snap, 2)
	assert.Equal(t, "new", snap[0].ID)
	assert.Equal(t, "old", snap[1].ID)
}

func TestSyncRepublishesOnRemoteMutation(t *testing.T) {
	st := store.NewMemory()
	st.Seed(models.Post{ID: "p1", CreatedAt: time.Now()})

	_, updates := waitStarted(t, st)
	waitSnapshot(t, updates)

	_, err := st.Mutate(context.Background(), "p1", store.Mutation{
		Inc: map[string]int64{store.FieldViews: 1},
	})
	require.NoError(t, err)

	snap := waitSnapshot(t, updates)
	require.Len(t, snap, 1)
	assert.Equal(t, int64(1), snap[0].Views)
}

func TestSyncApplyPatchesLocalCopyAndRepublishes(t *testing.T) {
	st := store.NewMemory()
	st.Seed(models.Post{ID: "p1", CreatedAt: time.Now()})

	s, updates := waitStarted(t, st)
	waitSnapshot(t, updates)

	found := s.Apply("p1", func(p *models.Post) {
		p.Likes = 7
	})
	assert.True(t, found)

	snap := waitSnapshot(t, updates)
	assert.Equal(t, int64(7), snap[0].Likes)

	got, ok := s.Get("p1")
	assert.True(t, ok)
	assert.Equal(t, int64(7), got.Likes)
}

func TestSyncApplyOnUnknownPost(t *testing.T) {
	st := store.NewMemory()
	s, updates := waitStarted(t, st)
	waitSnapshot(t, updates)

	assert.False(t, s.Apply("missing", func(p *models.Post) { p.Likes++ }))
}

func TestSyncCloseStopsSnapshotProcessing(t *testing.T) {
	st := store.NewMemory()
	st.Seed(models.Post{ID: "p1", CreatedAt: time.Now()})

	s, updates := waitStarted(t, st)
	waitSnapshot(t, updates)

	s.Close()

	_, err := st.Mutate(context.Background(), "p1", store.Mutation{
		Inc: map[string]int64{store.FieldViews: 1},
	})
	require.NoError(t, err)

	select {
	case <-updates:
		t.Fatal("snapshot processed after Close")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSyncPostsReturnsCopies(t *testing.T) {
	st := store.NewMemory()
	st.Seed(models.Post{ID: "p1", CreatedAt: time.Now(), LikedBy: []string{"u1"}})

	s, updates := waitStarted(t, st)
	waitSnapshot(t, updates)

	posts := s.Posts()
	require.Len(t, posts, 1)
	posts[0].LikedBy[0] = "mutated"

	again, _ := s.Get("p1")
	assert.Equal(t, "u1", again.LikedBy[0])
}
