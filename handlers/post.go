package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"blogview/apiclient"
	"blogview/card"
	"blogview/feed"
	"blogview/middleware"
	"blogview/notify"
)

// ListBlogs renders everyone's posts.
func (h *Handler) ListBlogs(c *gin.Context) {
	s := middleware.Session(c)
	list := h.Feeds.Feed(s.Visitor())
	h.renderList(c, list, feed.KindAll)
}

// MyBlogs renders the signed-in user's posts.
func (h *Handler) MyBlogs(c *gin.Context) {
	s := middleware.Session(c)
	userID, _ := s.UserID()
	list := h.Feeds.UserFeed(s.Visitor(), userID)
	h.renderList(c, list, feed.KindMine)
}

// renderList treats a request without q as a fresh page load. With q the
// already fetched list is only re-filtered, unless refresh is asked for or
// nothing has been fetched yet.
func (h *Handler) renderList(c *gin.Context, list *feed.PostList, kind feed.Kind) {
	term, searching := c.GetQuery("q")
	if !searching {
		term = ""
	}
	list.SetSearchTerm(term)

	if !searching || c.Query("refresh") != "" || !list.Snapshot().Loaded {
		if err := list.Load(c.Request.Context()); err != nil && !errors.Is(err, feed.ErrStale) {
			log.Printf("❌ Failed to load %s posts: %v", kind, err)
		}
	}

	st := list.Snapshot()

	name, title := "blogs", "Discover Stories"
	if kind == feed.KindMine {
		name, title = "my-blogs", "My Stories"
	}
	data := page(c, name, title)
	data["Feed"] = string(kind)
	data["Cards"] = card.Page(st.Posts, st.Filtered, viewer(c))
	data["Now"] = time.Now()
	data["Term"] = st.Term
	data["Total"] = len(st.Posts)
	data["Count"] = len(st.Filtered)
	data["Username"] = st.Username
	data["Loading"] = st.Loading
	if st.Err != nil {
		data["LoadError"] = apiclient.Message(st.Err, "We could not load the stories. Try refreshing.")
	}
	render(c, http.StatusOK, data)
}

// DeleteBlog removes a post and sends the browser back to the list it came
// from with its search intact, so the list is not fetched again.
func (h *Handler) DeleteBlog(c *gin.Context) {
	s := middleware.Session(c)
	postID := c.Param("id")
	term := c.PostForm("q")

	var list *feed.PostList
	back := "/blogs"
	if c.PostForm("from") == string(feed.KindMine) {
		userID, _ := s.UserID()
		list = h.Feeds.UserFeed(s.Visitor(), userID)
		back = "/my-blogs"
	} else {
		list = h.Feeds.Feed(s.Visitor())
	}
	back += "?q=" + url.QueryEscape(term)

	if err := list.Remove(c.Request.Context(), postID); err != nil {
		log.Printf("❌ DeleteBlog %s: %v", postID, err)
		notify.Error(c.Writer, apiclient.Message(err, "Failed to delete blog"))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastFeedChanged("deleted", postID)
	}
	notify.Success(c.Writer, "Blog Deleted Successfully")
	c.Redirect(http.StatusSeeOther, back)
}

// SearchSocket upgrades to the live search channel over the visitor's list.
func (h *Handler) SearchSocket(c *gin.Context) {
	s := middleware.Session(c)
	kind := feed.KindAll
	if c.Query("feed") == string(feed.KindMine) {
		kind = feed.KindMine
	}
	h.Hub.Serve(c.Writer, c.Request, s.Visitor(), kind)
}
