package feed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blogme/feed"
	"blogme/models"
)

func filterFixture() []models.Post {
	return []models.Post{
		{ID: "p1", Title: "Sourdough starters", Category: "food", AuthorName: "Alice"},
		{ID: "p2", Title: "Go generics in practice", Category: "technology", AuthorName: "Bob"},
		{ID: "p3", Title: "Hiking the Alps", Category: "travel", AuthorName: "alice cooper"},
	}
}

func TestFilterAllKeepsOrder(t *testing.T) {
	out := feed.Filter(filterFixture(), feed.CategoryAll, "")
	assert.Len(t, out, 3)
	assert.Equal(t, "p1", out[0].ID)
	assert.Equal(t, "p3", out[2].ID)
}

func TestFilterByCategory(t *testing.T) {
	out := feed.Filter(filterFixture(), "technology", "")
	assert.Len(t, out, 1)
	assert.Equal(t, "p2", out[0].ID)
}

func TestFilterCategoryWithNoMatches(t *testing.T) {
	out := feed.Filter(filterFixture(), "sports", "")
	assert.Empty(t, out)
}

func TestFilterSearchMatchesTitleCaseInsensitive(t *testing.T) {
	out := feed.Filter(filterFixture(), feed.CategoryAll, "GENERICS")
	assert.Len(t, out, 1)
	assert.Equal(t, "p2", out[0].ID)
}

func TestFilterSearchMatchesAuthorName(t *testing.T) {
	out := feed.Filter(filterFixture(), feed.CategoryAll, "alice")
	assert.Len(t, out, 2)
	assert.Equal(t, "p1", out[0].ID)
	assert.Equal(t, "p3", out[1].ID)
}

func TestFilterCombinesCategoryAndSearch(t *testing.T) {
	out := feed.Filter(filterFixture(), "travel", "alice")
	assert.Len(t, out, 1)
	assert.Equal(t, "p3", out[0].ID)
}

func TestFilterTrimsSearchWhitespace(t *testing.T) {
	out := feed.Filter(filterFixture(), feed.CategoryAll, "  alps  ")
	assert.Len(t, out, 1)
	assert.Equal(t, "p3", out[0].ID)
}
