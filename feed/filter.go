package feed

import (
	"strings"

	"blogview/models"
)

// Matches reports whether term occurs, ignoring case, in the post's title,
// description or author name. The empty term matches everything.
func Matches(p models.Post, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Author.Name), needle)
}

// Filter returns the posts matching term in their original order. The
// result never aliases posts.
func Filter(posts []models.Post, term string) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if Matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}

func without(posts []models.Post, postID string) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != postID {
			out = append(out, p)
		}
	}
	return out
}
