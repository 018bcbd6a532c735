package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	ListenAddr  string
	MetricsAddr string

	// Feed
	FeedIntervalMS int
	SeedBars       int
	HistoryMax     int

	// Viewport
	CanvasW float64
	CanvasH float64
	DPR     float64
	Theme   string

	// Frame streaming
	FrameIntervalMS int

	// Optional stores (empty = disabled)
	RedisAddr     string
	RedisPassword string
	SQLitePath    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),

		FeedIntervalMS: getEnvInt("FEED_INTERVAL_MS", 1000),
		SeedBars:       getEnvInt("SEED_BARS", 120),
		HistoryMax:     getEnvInt("HISTORY_MAX", 500),

		CanvasW: float64(getEnvInt("CANVAS_W", 1280)),
		CanvasH: float64(getEnvInt("CANVAS_H", 860)),
		DPR:     getEnvFloat("DPR", 1),
		Theme:   getEnv("THEME", "dark"),

		FrameIntervalMS: getEnvInt("FRAME_INTERVAL_MS", 250),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SQLitePath:    getEnv("SQLITE_PATH", ""),
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}
