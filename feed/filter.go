package feed

import (
	"strings"

	"blogme/models"
)

// CategoryAll selects every category.
const CategoryAll = "all"

// Categories is the fixed set offered by the UI. The engagement layer
// does not validate posts against it; unknown tags still filter by
// exact match.
var Categories = []string{
	"technology",
	"food",
	"travel",
	"lifestyle",
	"health",
	"education",
	"business",
	"entertainment",
	"sports",
	"other",
}

// Filter projects the collection by category and an optional search
// string. Category is "all" or an exact match; search is a
// case-insensitive substring test against title and author display
// name. Pure function, input order preserved.
func Filter(posts []models.Post, category, search string) []models.Post {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.AuthorName), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}
