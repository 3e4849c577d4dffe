package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"blogview/models"
)

func fakeBackend(t *testing.T, setup func(r *gin.Engine)) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setup(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second)
}

func TestAllPosts_DecodesFeed(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/v1/blog/all-blog", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"BlogCount": 2,
				"blogs": []gin.H{
					{"_id": "p1", "title": "Ocean", "description": "waves", "image": "", "createdAt": "2024-03-01T10:00:00Z",
						"user": gin.H{"_id": "u1", "username": "ana"}},
					{"_id": "p2", "title": "Hills", "description": "green", "image": "", "createdAt": "2024-03-02T10:00:00Z",
						"user": "u2"},
				},
			})
		})
	})

	posts, err := c.AllPosts(context.Background())
	if err != nil {
		t.Fatalf("AllPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Author.ID != "u1" || posts[0].Author.Name != "ana" {
		t.Errorf("populated author not decoded: %+v", posts[0].Author)
	}
	if posts[1].Author.ID != "u2" || posts[1].Author.Name != "" {
		t.Errorf("bare author id not decoded: %+v", posts[1].Author)
	}
	if posts[0].CreatedAt.Year() != 2024 {
		t.Errorf("createdAt not decoded: %v", posts[0].CreatedAt)
	}
}

func TestUserPosts_FillsAuthorFromEnvelope(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/v1/blog/user-blog/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"userBlog": gin.H{
					"_id":      c.Param("id"),
					"username": "ben",
					"blogs": []gin.H{
						{"_id": "p9", "title": "Mine", "description": "d", "user": c.Param("id"), "createdAt": "2024-01-01T00:00:00Z"},
					},
				},
			})
		})
	})

	name, posts, err := c.UserPosts(context.Background(), "u7")
	if err != nil {
		t.Fatalf("UserPosts: %v", err)
	}
	if name != "ben" {
		t.Errorf("username = %q, want ben", name)
	}
	if len(posts) != 1 || posts[0].Author.ID != "u7" || posts[0].Author.Name != "ben" {
		t.Errorf("author not filled: %+v", posts)
	}
}

func TestDo_SuccessFalseIsBackendError(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.DELETE("/api/v1/blog/delete-blog/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Unable to delete"})
		})
	})

	err := c.DeletePost(context.Background(), "p1")
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if got := Message(err, "fallback"); got != "Unable to delete" {
		t.Errorf("Message = %q", got)
	}
}

func TestDo_NonSuccessStatus(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.POST("/api/v1/user/login", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Incorrect Password"})
		})
	})

	_, err := c.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Incorrect Password" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestDo_NonJSONErrorBodyUsesFallback(t *testing.T) {
	c := fakeBackend(t, func(r *gin.Engine) {
		r.GET("/api/v1/blog/all-blog", func(c *gin.Context) {
			c.String(http.StatusBadGateway, "<html>bad gateway</html>")
		})
	})

	_, err := c.AllPosts(context.Background())
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if got := Message(err, "fallback"); got != "fallback" {
		t.Errorf("Message = %q, want fallback", got)
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	_, err := c.AllPosts(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if errors.Is(err, ErrBackend) {
		t.Error("transport error must not look like a backend error")
	}
}

func TestCreatePost_SendsInput(t *testing.T) {
	var got models.PostInput
	c := fakeBackend(t, func(r *gin.Engine) {
		r.POST("/api/v1/blog/create-blog", func(c *gin.Context) {
			if err := c.ShouldBindJSON(&got); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, gin.H{
				"success": true,
				"newBlog": gin.H{"_id": "new1", "title": got.Title, "description": got.Description,
					"image": got.Image, "user": got.User, "createdAt": "2024-05-05T05:05:05Z"},
			})
		})
	})

	post, err := c.CreatePost(context.Background(), models.PostInput{
		Title: "T", Description: "D", Image: "http://img", User: "u1",
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if got.User != "u1" || got.Title != "T" {
		t.Errorf("backend received %+v", got)
	}
	if post.ID != "new1" || post.Author.ID != "u1" {
		t.Errorf("unexpected post %+v", post)
	}
}

func TestUpdatePost_EscapesID(t *testing.T) {
	var method, id string
	c := fakeBackend(t, func(r *gin.Engine) {
		r.PUT("/api/v1/blog/update-blog/:id", func(c *gin.Context) {
			method, id = c.Request.Method, c.Param("id")
			c.JSON(http.StatusOK, gin.H{"success": true,
				"blog": gin.H{"_id": c.Param("id"), "title": "new", "createdAt": "2024-05-05T05:05:05Z"}})
		})
	})

	if _, err := c.UpdatePost(context.Background(), "a b", models.PostInput{Title: "new"}); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if method != http.MethodPut || id != "a b" {
		t.Errorf("got %s %q", method, id)
	}
}
