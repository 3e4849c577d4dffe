package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogview/apiclient"
	"blogview/middleware"
	"blogview/models"
	"blogview/notify"
	"blogview/session"
)

type authValues struct {
	Username string
	Email    string
}

func renderAuth(c *gin.Context, status int, name, title string, values authValues, errMsg string) {
	data := page(c, name, title)
	data["Values"] = values
	data["Next"] = c.Query("next")
	if next := c.PostForm("next"); next != "" {
		data["Next"] = next
	}
	if errMsg != "" {
		data["Notice"] = notify.Notice{Kind: notify.KindError, Message: errMsg}
	}
	render(c, status, data)
}

func (h *Handler) LoginForm(c *gin.Context) {
	if middleware.Session(c).Current() == session.Authenticated {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	renderAuth(c, http.StatusOK, "login", "Welcome Back", authValues{}, "")
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		renderAuth(c, http.StatusBadRequest, "login", "Welcome Back",
			authValues{Email: req.Email}, "Please enter a valid email and password")
		return
	}

	user, err := session.Login(c.Request.Context(), middleware.Session(c), h.API, req)
	if err != nil {
		log.Printf("❌ Login failed for %s: %v", req.Email, err)
		renderAuth(c, http.StatusOK, "login", "Welcome Back",
			authValues{Email: req.Email}, apiclient.Message(err, "Invalid email or password"))
		return
	}

	log.Printf("✅ User %s logged in", user.ID)
	notify.Success(c.Writer, "User login Successfully")
	c.Redirect(http.StatusSeeOther, safeNext(c.PostForm("next")))
}

func (h *Handler) RegisterForm(c *gin.Context) {
	renderAuth(c, http.StatusOK, "register", "Create Account", authValues{}, "")
}

func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		renderAuth(c, http.StatusBadRequest, "register", "Create Account",
			authValues{Username: req.Username, Email: req.Email},
			"Name, a valid email and a password are required")
		return
	}

	if _, err := session.Register(c.Request.Context(), h.API, req); err != nil {
		log.Printf("❌ Register failed for %s: %v", req.Email, err)
		renderAuth(c, http.StatusOK, "register", "Create Account",
			authValues{Username: req.Username, Email: req.Email},
			apiclient.Message(err, "Failed to register user"))
		return
	}

	notify.Success(c.Writer, "User Registered Successfully")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) Logout(c *gin.Context) {
	s := middleware.Session(c)
	if err := session.Logout(c.Request.Context(), s); err != nil {
		log.Printf("⚠️ Logout could not clear storage: %v", err)
	}
	h.Feeds.Drop(s.Visitor())

	notify.Success(c.Writer, "Logout Successfully")
	c.Redirect(http.StatusSeeOther, "/login")
}
