package feed

import (
	"context"

	"blogview/models"
)

type Kind string

const (
	KindAll  Kind = "all"
	KindMine Kind = "mine"
)

// Backend is the slice of the blog API a post list needs.
type Backend interface {
	AllPosts(ctx context.Context) ([]models.Post, error)
	UserPosts(ctx context.Context, userID string) (string, []models.Post, error)
	DeletePost(ctx context.Context, postID string) error
}

type Result struct {
	Username string
	Posts    []models.Post
}

type Source interface {
	Fetch(ctx context.Context) (Result, error)
}

type SourceFunc func(ctx context.Context) (Result, error)

func (f SourceFunc) Fetch(ctx context.Context) (Result, error) { return f(ctx) }

func AllPosts(b Backend) Source {
	return SourceFunc(func(ctx context.Context) (Result, error) {
		posts, err := b.AllPosts(ctx)
		if err != nil {
			return Result{}, err
		}
		return Result{Posts: posts}, nil
	})
}

func UserPosts(b Backend, userID string) Source {
	return SourceFunc(func(ctx context.Context) (Result, error) {
		username, posts, err := b.UserPosts(ctx, userID)
		if err != nil {
			return Result{}, err
		}
		return Result{Username: username, Posts: posts}, nil
	})
}
