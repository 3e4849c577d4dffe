package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"blogview/models"
)

func (c *Client) AllPosts(ctx context.Context) ([]models.Post, error) {
	var resp models.AllPostsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/blog/all-blog", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Blogs, nil
}

// UserPosts returns the owner's display name and their posts. The backend
// leaves the author unpopulated here, so it is filled from the envelope.
func (c *Client) UserPosts(ctx context.Context, userID string) (string, []models.Post, error) {
	var resp models.UserPostsResponse
	path := "/api/v1/blog/user-blog/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", nil, err
	}

	username := resp.UserBlog.Username
	posts := resp.UserBlog.Blogs
	for i := range posts {
		if posts[i].Author.ID == "" {
			posts[i].Author.ID = userID
		}
		if posts[i].Author.Name == "" {
			posts[i].Author.Name = username
		}
	}
	return username, posts, nil
}

func (c *Client) CreatePost(ctx context.Context, in models.PostInput) (models.Post, error) {
	var resp models.CreatePostResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/blog/create-blog", in, &resp); err != nil {
		return models.Post{}, err
	}
	return resp.NewBlog, nil
}

func (c *Client) GetPost(ctx context.Context, postID string) (models.Post, error) {
	var resp models.PostResponse
	path := "/api/v1/blog/get-blog/" + url.PathEscape(postID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return models.Post{}, err
	}
	return resp.Blog, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID string, in models.PostInput) (models.Post, error) {
	var resp models.PostResponse
	path := "/api/v1/blog/update-blog/" + url.PathEscape(postID)
	if err := c.do(ctx, http.MethodPut, path, in, &resp); err != nil {
		return models.Post{}, err
	}
	return resp.Blog, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	path := "/api/v1/blog/delete-blog/" + url.PathEscape(postID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
