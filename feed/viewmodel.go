// Package feed holds the in-memory view-model behind the post listing
// screens: the fetched posts, the current search term and the filtered
// subset derived from both.
//
// Loads are not deduplicated. Every Load takes a new generation number and
// only the response carrying the latest generation is applied; earlier ones
// are dropped with ErrStale.
package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"blogview/models"
)

var (
	ErrStale  = errors.New("feed: response superseded by a newer load")
	ErrClosed = errors.New("feed: list closed")
)

type Remover interface {
	DeletePost(ctx context.Context, postID string) error
}

type Options struct {
	// ReloadOnRemove refetches the whole list after a delete instead of
	// splicing the post out locally.
	ReloadOnRemove bool
}

// State is a point-in-time copy of a PostList, safe to hand to templates.
type State struct {
	Posts    []models.Post
	Filtered []models.Post
	Term     string
	Username string
	Loading  bool
	Loaded   bool
	Err      error
}

type PostList struct {
	source  Source
	remover Remover
	opts    Options

	mu       sync.Mutex
	posts    []models.Post
	filtered []models.Post
	term     string
	username string
	loading  bool
	loaded   bool
	err      error
	gen      uint64
	closed   bool
	touched  time.Time
}

func New(source Source, remover Remover, opts Options) *PostList {
	return &PostList{
		source:   source,
		remover:  remover,
		opts:     opts,
		posts:    []models.Post{},
		filtered: []models.Post{},
		touched:  time.Now(),
	}
}

func (l *PostList) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.gen++
	gen := l.gen
	l.loading = true
	l.touched = time.Now()
	l.mu.Unlock()

	res, err := l.source.Fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.gen {
		return ErrStale
	}

	l.loading = false
	if err != nil {
		l.err = err
		return err
	}

	posts := make([]models.Post, len(res.Posts))
	copy(posts, res.Posts)
	l.posts = posts
	l.filtered = Filter(posts, l.term)
	l.username = res.Username
	l.err = nil
	l.loaded = true
	return nil
}

func (l *PostList) Refresh(ctx context.Context) error {
	return l.Load(ctx)
}

func (l *PostList) SetSearchTerm(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.term = term
	l.filtered = Filter(l.posts, term)
	l.touched = time.Now()
}

// Remove deletes the post on the backend. A failed delete leaves the list
// untouched.
func (l *PostList) Remove(ctx context.Context, postID string) error {
	if err := l.remover.DeletePost(ctx, postID); err != nil {
		return err
	}
	if l.opts.ReloadOnRemove {
		return l.Load(ctx)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.posts = without(l.posts, postID)
	l.filtered = without(l.filtered, postID)
	l.touched = time.Now()
	return nil
}

// Close tears the list down. Responses still in flight are discarded when
// they land.
func (l *PostList) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

func (l *PostList) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	posts := make([]models.Post, len(l.posts))
	copy(posts, l.posts)
	filtered := make([]models.Post, len(l.filtered))
	copy(filtered, l.filtered)

	return State{
		Posts:    posts,
		Filtered: filtered,
		Term:     l.term,
		Username: l.username,
		Loading:  l.loading,
		Loaded:   l.loaded,
		Err:      l.err,
	}
}

// FilteredIDs is what the live search channel pushes to the page.
func (l *PostList) FilteredIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.filtered))
	for _, p := range l.filtered {
		ids = append(ids, p.ID)
	}
	return ids
}

func (l *PostList) idleSince() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.touched
}
