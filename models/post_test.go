package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blogme/models"
)

func TestNormalizeFlatAuthorFields(t *testing.T) {
	p := models.Post{
		ID:         "p1",
		AuthorID:   "u1",
		AuthorName: "Alice",
	}
	p.Normalize()

	assert.Equal(t, "u1", p.AuthorID)
	assert.Equal(t, "Alice", p.AuthorName)
}

func TestNormalizeLegacyAuthorObject(t *testing.T) {
	p := models.Post{
		ID: "p2",
		LegacyAuthor: &models.AuthorRef{
			UID:         "u2",
			DisplayName: "Bob",
			PhotoURL:    "https://example.com/bob.png",
		},
	}
	p.Normalize()

	assert.Equal(t, "u2", p.AuthorID)
	assert.Equal(t, "Bob", p.AuthorName)
	assert.Equal(t, "https://example.com/bob.png", p.AuthorPhoto)
	assert.Nil(t, p.LegacyAuthor)
}

func TestNormalizeLegacyUserIDFallback(t *testing.T) {
	p := models.Post{
		ID:           "p3",
		LegacyUserID: "u3",
	}
	p.Normalize()

	assert.Equal(t, "u3", p.AuthorID)
	assert.Equal(t, models.AnonymousAuthor, p.AuthorName)
}

func TestNormalizeAnonymousWhenNothingSurvives(t *testing.T) {
	p := models.Post{ID: "p4"}
	p.Normalize()

	assert.Equal(t, models.AnonymousAuthor, p.AuthorName)
	assert.Empty(t, p.AuthorID)
}

func TestNormalizeDefaultFillsEngagementFields(t *testing.T) {
	p := models.Post{ID: "p5", Views: -2}
	p.Normalize()

	assert.Zero(t, p.Views)
	assert.Zero(t, p.Likes)
	assert.NotNil(t, p.LikedBy)
	assert.Empty(t, p.LikedBy)
	assert.NotNil(t, p.Comments)
	assert.Empty(t, p.Comments)
}

func TestCloneDoesNotAliasSlices(t *testing.T) {
	p := models.Post{
		ID:      "p6",
		LikedBy: []string{"u1"},
		Comments: []models.Comment{
			{ID: "c1", Text: "hi", UserID: "u1"},
		},
	}
	c := p.Clone()
	c.LikedBy[0] = "u9"
	c.Comments[0].Text = "changed"

	assert.Equal(t, "u1", p.LikedBy[0])
	assert.Equal(t, "hi", p.Comments[0].Text)
}

func TestHasLikedAndCommentByID(t *testing.T) {
	p := models.Post{
		LikedBy: []string{"u1", "u2"},
		Comments: []models.Comment{
			{ID: "c1"},
			{ID: "c2"},
		},
	}

	assert.True(t, p.HasLiked("u2"))
	assert.False(t, p.HasLiked("u3"))

	c, idx := p.CommentByID("c2")
	assert.NotNil(t, c)
	assert.Equal(t, 1, idx)

	c, idx = p.CommentByID("missing")
	assert.Nil(t, c)
	assert.Equal(t, -1, idx)
}
