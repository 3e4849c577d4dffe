package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogview/apiclient"
	"blogview/compose"
	"blogview/media"
	"blogview/middleware"
	"blogview/models"
	"blogview/notify"
)

const maxUpload = 10 << 20

func renderForm(c *gin.Context, status int, form *compose.Form, notice string) {
	title := "Create a Story"
	if form.IsUpdate() {
		title = "Edit Story"
	}
	data := page(c, "compose", title)
	data["Form"] = form.Fields()
	data["Errors"] = form.Errors()
	data["IsUpdate"] = form.IsUpdate()
	data["PostID"] = form.PostID()
	if notice == "" {
		notice = form.Notice()
	}
	if notice != "" {
		data["Notice"] = notify.Notice{Kind: notify.KindError, Message: notice}
	}
	render(c, status, data)
}

func (h *Handler) NewBlogForm(c *gin.Context) {
	renderForm(c, http.StatusOK, compose.New(), "")
}

func (h *Handler) CreateBlog(c *gin.Context) {
	h.submit(c, compose.New(), "Blog Created Successfully", "created")
}

// EditBlogForm loads the post for editing. Only its author is shown the
// form; the backend still has the final word on the update.
func (h *Handler) EditBlogForm(c *gin.Context) {
	post, err := h.API.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("❌ EditBlogForm %s: %v", c.Param("id"), err)
		notify.Error(c.Writer, apiclient.Message(err, "Could not load the blog"))
		c.Redirect(http.StatusSeeOther, "/my-blogs")
		return
	}
	if !middleware.Session(c).Owns(post.Author.ID) {
		notify.Error(c.Writer, "You can only edit your own stories")
		c.Redirect(http.StatusSeeOther, "/blogs")
		return
	}
	renderForm(c, http.StatusOK, compose.Edit(post), "")
}

func (h *Handler) UpdateBlog(c *gin.Context) {
	h.submit(c, compose.Edit(models.Post{ID: c.Param("id")}), "Blog Updated Successfully", "updated")
}

func (h *Handler) submit(c *gin.Context, form *compose.Form, okMsg, action string) {
	form.Observe(func(from, to compose.State) {
		log.Printf("📝 Compose %s: %s -> %s", action, from, to)
	})
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)

	var fields compose.Fields
	if err := c.ShouldBind(&fields); err != nil {
		log.Printf("⚠️ Compose bind error: %v", err)
	}

	userID := viewer(c)
	if url, err := h.uploadImage(c, userID); err != nil {
		log.Printf("❌ Image upload failed: %v", err)
		form.SetFields(fields)
		renderForm(c, http.StatusOK, form, "Image upload failed, paste an image URL instead")
		return
	} else if url != "" {
		fields.Image = url
	}

	form.SetFields(fields)
	err := form.Submit(c.Request.Context(), h.API, userID)
	switch {
	case err == nil:
	case errors.Is(err, compose.ErrInvalid):
		renderForm(c, http.StatusBadRequest, form, "")
		return
	case errors.Is(err, compose.ErrNoAuthor):
		renderForm(c, http.StatusUnauthorized, form, "Please log in to publish a story")
		return
	default:
		log.Printf("❌ Compose %s failed: %v", action, err)
		renderForm(c, http.StatusOK, form, "")
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastFeedChanged(action, form.Saved().ID)
	}
	notify.Success(c.Writer, okMsg)
	c.Redirect(http.StatusSeeOther, form.Redirect())
}

// uploadImage stores an attached image file, if there is one. It returns ""
// when nothing was attached.
func (h *Handler) uploadImage(c *gin.Context, owner string) (string, error) {
	file, header, err := c.Request.FormFile("imageFile")
	if err != nil || header.Size == 0 {
		return "", nil
	}
	defer file.Close()

	url, err := h.Uploader.Upload(c.Request.Context(), file, owner)
	if errors.Is(err, media.ErrDisabled) {
		return "", nil
	}
	return url, err
}
