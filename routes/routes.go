package routes

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"blogview/handlers"
	"blogview/middleware"
	"blogview/session"
	"blogview/templates"
)

func SetupRouter(h *handlers.Handler, tmpl *template.Template, signer *session.CookieSigner, storage session.Storage, origins []string) *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", func(c *gin.Context) {
		clients := 0
		if h.Hub != nil {
			clients = h.Hub.ConnectedClients()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"time":    time.Now().Unix(),
			"ws":      "live search available at /ws/search",
			"clients": clients,
		})
	})
	router.StaticFS("/static", http.FS(templates.Static()))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SessionMiddleware(signer, storage))

	// Public pages
	router.GET("/", h.ListBlogs)
	router.GET("/blogs", h.ListBlogs)
	router.GET("/ws/search", h.SearchSocket)

	limiter := middleware.NewIPRateLimiter(10, time.Minute)
	router.GET("/login", h.LoginForm)
	router.POST("/login", middleware.RateLimitMiddleware(limiter), h.Login)
	router.GET("/register", h.RegisterForm)
	router.POST("/register", middleware.RateLimitMiddleware(limiter), h.Register)
	router.POST("/logout", h.Logout)

	// Signed-in pages
	protected := router.Group("/")
	protected.Use(middleware.RequireAuth())

	protected.GET("/my-blogs", h.MyBlogs)
	protected.GET("/create-blog", h.NewBlogForm)
	protected.POST("/create-blog", h.CreateBlog)
	protected.GET("/blog-details/:id", h.EditBlogForm)
	protected.POST("/blog-details/:id", h.UpdateBlog)
	protected.POST("/blogs/:id/delete", h.DeleteBlog)

	router.NoRoute(handlers.NotFound)

	return router
}
