package card

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"blogview/models"
)

// Placeholder engagement figures. Nothing counts views or likes.
const (
	PlaceholderViews = "1.2k"
	PlaceholderLikes = "89"
)

const excerptLen = 160

type Card struct {
	Post       models.Post
	Editable   bool
	Deletable  bool
	Liked      bool
	Bookmarked bool
	Views      string
	Likes      string
	// Hidden marks a loaded post that the current search leaves out.
	Hidden bool
}

// New builds the card for one post as seen by viewerID. Edit and delete are
// offered only to the post's author; the check is cosmetic and the backend
// still decides.
func New(p models.Post, viewerID string) Card {
	owns := viewerID != "" && viewerID == p.Author.ID
	return Card{
		Post:      p,
		Editable:  owns,
		Deletable: owns,
		Views:     PlaceholderViews,
		Likes:     PlaceholderLikes,
	}
}

func List(posts []models.Post, viewerID string) []Card {
	cards := make([]Card, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, New(p, viewerID))
	}
	return cards
}

// Page builds a card for every loaded post and hides the ones not in
// visible, so live search can widen the result again without a reload.
func Page(posts, visible []models.Post, viewerID string) []Card {
	shown := make(map[string]bool, len(visible))
	for _, p := range visible {
		shown[p.ID] = true
	}
	cards := List(posts, viewerID)
	for i := range cards {
		cards[i].Hidden = !shown[cards[i].Post.ID]
	}
	return cards
}

func (c Card) AuthorInitial() string {
	name := strings.TrimSpace(c.Post.Author.Name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

func (c Card) AuthorName() string {
	if c.Post.Author.Name == "" {
		return "Unknown author"
	}
	return c.Post.Author.Name
}

func (c Card) Excerpt() string {
	d := strings.TrimSpace(c.Post.Description)
	if utf8.RuneCountInString(d) <= excerptLen {
		return d
	}
	runes := []rune(d)
	return strings.TrimSpace(string(runes[:excerptLen])) + "…"
}

func (c Card) Date() string {
	if c.Post.CreatedAt.IsZero() {
		return ""
	}
	return c.Post.CreatedAt.Local().Format("Jan 2, 2006")
}

func (c Card) Age(now time.Time) string {
	if c.Post.CreatedAt.IsZero() {
		return ""
	}
	d := now.Sub(c.Post.CreatedAt)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	case d < 30*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	}
	return c.Date()
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
