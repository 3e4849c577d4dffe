package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogview/compose"
	"blogview/feed"
	"blogview/media"
	"blogview/middleware"
	"blogview/models"
	"blogview/notify"
	"blogview/session"
)

// BlogAPI is everything the screens ask of the blog backend.
type BlogAPI interface {
	feed.Backend
	compose.Backend
	session.Authenticator
	GetPost(ctx context.Context, postID string) (models.Post, error)
}

// Hub is the live search side channel.
type Hub interface {
	Serve(w http.ResponseWriter, r *http.Request, visitor string, kind feed.Kind)
	BroadcastFeedChanged(action, postID string)
	ConnectedClients() int
}

type Handler struct {
	API      BlogAPI
	Feeds    *feed.Registry
	Uploader media.Uploader
	Hub      Hub
}

func New(api BlogAPI, feeds *feed.Registry, uploader media.Uploader, hub Hub) *Handler {
	if uploader == nil {
		uploader = media.Disabled{}
	}
	return &Handler{API: api, Feeds: feeds, Uploader: uploader, Hub: hub}
}

// page builds the data every template gets: which page, who is looking and
// any pending notice.
func page(c *gin.Context, name, title string) gin.H {
	data := gin.H{
		"Page":     name,
		"Title":    title,
		"LoggedIn": false,
		"UserID":   "",
	}
	if s := middleware.Session(c); s != nil {
		if id, ok := s.UserID(); ok {
			data["LoggedIn"] = true
			data["UserID"] = id
		}
	}
	if n, ok := notify.Pop(c.Writer, c.Request); ok {
		data["Notice"] = n
	}
	return data
}

func render(c *gin.Context, status int, data gin.H) {
	c.HTML(status, "layout", data)
}

// viewer returns the signed-in user id, or "" for anonymous visitors.
func viewer(c *gin.Context) string {
	s := middleware.Session(c)
	if s == nil {
		return ""
	}
	id, _ := s.UserID()
	return id
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func NotFound(c *gin.Context) {
	data := page(c, "error", "Not found")
	data["Status"] = http.StatusNotFound
	data["Message"] = "The page you are looking for does not exist."
	render(c, http.StatusNotFound, data)
}
