package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	BlogAPIURL string
	APITimeout time.Duration

	SessionSecret string
	SessionStore  string // memory, mongo, redis or sqlite
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	SQLitePath    string

	CloudinaryURL  string
	AllowedOrigins []string

	FeedIdleTTL    time.Duration
	ReloadOnRemove bool
}

// Load reads .env when present, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Could not read .env: %v", err)
	}

	return Config{
		Port:    getEnv("PORT", "3000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		BlogAPIURL: getEnv("BLOG_API_URL", "http://localhost:8080"),
		APITimeout: getDuration("API_TIMEOUT", 10*time.Second),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", "memory")),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDB:       getEnv("MONGODB_DB", "blogview"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath:    getEnv("SQLITE_PATH", "blogview.db"),

		CloudinaryURL:  os.Getenv("CLOUDINARY_URL"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),

		FeedIdleTTL:    getDuration("FEED_IDLE_TTL", 30*time.Minute),
		ReloadOnRemove: getBool("RELOAD_ON_REMOVE", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
