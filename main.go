package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"blogview/apiclient"
	"blogview/config"
	"blogview/database"
	"blogview/feed"
	"blogview/handlers"
	"blogview/media"
	"blogview/routes"
	"blogview/session"
	"blogview/templates"
	"blogview/websocket"
)

func main() {
	log.Println("🚀 Starting blog client...")

	cfg := config.Load()

	// ===== GIN MODE =====
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
		log.Println("⚙️ Running in RELEASE mode")
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("⚙️ Running in DEBUG mode")
	}

	// ===== VISITOR COOKIE =====
	secret := cfg.SessionSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatal("❌ Could not generate a session secret:", err)
		}
		secret = hex.EncodeToString(buf)
		log.Println("⚠️ SESSION_SECRET not set, visitors will be signed out on restart")
	}
	signer, err := session.NewCookieSigner(secret)
	if err != nil {
		log.Fatal("❌ Invalid session secret:", err)
	}

	// ===== SESSION STORAGE =====
	storage, closeStorage := openStorage(cfg)
	defer closeStorage()

	// ===== TEMPLATES =====
	tmpl, err := templates.Load()
	if err != nil {
		log.Fatal("❌ Failed to parse templates:", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// ===== BLOG API + FEEDS =====
	api := apiclient.New(cfg.BlogAPIURL, cfg.APITimeout)
	log.Printf("🔗 Blog API at %s", cfg.BlogAPIURL)

	feeds := feed.NewRegistry(api, feed.Options{ReloadOnRemove: cfg.ReloadOnRemove})
	go feeds.Run(ctx, cfg.FeedIdleTTL, time.Minute)

	// ===== WEBSOCKET =====
	log.Println("🔌 Initializing WebSocket manager...")
	wsManager := websocket.NewManager(feeds)
	go wsManager.Start()
	log.Println("✅ WebSocket endpoint: /ws/search")

	// ===== IMAGE UPLOADS =====
	var uploader media.Uploader
	if cfg.CloudinaryURL != "" {
		cld, err := media.NewCloudinary(cfg.CloudinaryURL, "")
		if err != nil {
			log.Printf("⚠️ Image uploads disabled: %v", err)
		} else {
			uploader = cld
			log.Println("✅ Cloudinary uploads enabled")
		}
	}

	// ===== ROUTER =====
	h := handlers.New(api, feeds, uploader, wsManager)
	router := routes.SetupRouter(h, tmpl, signer, storage, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error:", err)
		}
	}()

	log.Println("✅ Server is ready and accepting connections")

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}
	wsManager.Stop()
	stop()

	log.Println("👋 Server stopped gracefully")
}

// openStorage picks where visitor sessions live. Anything that fails to
// connect falls back to memory so the site still serves pages.
func openStorage(cfg config.Config) (session.Storage, func()) {
	noop := func() {}

	switch cfg.SessionStore {
	case "mongo":
		log.Println("🔌 Connecting to MongoDB...")
		var dbErr error
		for i := 1; i <= 3; i++ {
			if err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB); err != nil {
				dbErr = err
				log.Printf("❌ MongoDB connection attempt %d failed: %v", i, err)
				time.Sleep(2 * time.Second)
				continue
			}
			dbErr = nil
			break
		}
		if dbErr != nil {
			log.Printf("⚠️ MongoDB unavailable, keeping sessions in memory: %v", dbErr)
			break
		}
		log.Println("✅ Sessions stored in MongoDB")
		return session.NewMongoStorage(database.Visitors), func() {
			if err := database.DisconnectMongo(); err != nil {
				log.Println("❌ MongoDB disconnect:", err)
			}
		}

	case "redis":
		client, err := database.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, keeping sessions in memory: %v", err)
			break
		}
		log.Println("✅ Sessions stored in Redis")
		return session.NewRedisStorage(client, ""), func() { client.Close() }

	case "sqlite":
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Printf("⚠️ SQLite unavailable, keeping sessions in memory: %v", err)
			break
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st, err := session.NewSQLiteStorage(ctx, db)
		if err != nil {
			db.Close()
			log.Printf("⚠️ SQLite schema failed, keeping sessions in memory: %v", err)
			break
		}
		log.Println("✅ Sessions stored in SQLite")
		return st, func() { db.Close() }

	case "memory", "":
	default:
		log.Printf("⚠️ Unknown SESSION_STORE %q, keeping sessions in memory", cfg.SessionStore)
	}

	log.Println("✅ Sessions stored in memory")
	return session.NewMemoryStorage(), noop
}
