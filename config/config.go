package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string
	DBUrl    string
	// DB Pool
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Cache
	CacheBackend   string // "memory" or "redis"
	RedisAddr      string
	RedisDB        int
	CacheListTTL   time.Duration
	CacheDetailTTL time.Duration
	// Pagination
	PageSizeDefault int
	PageSizeMax     int
	// Class throttling (per identity class, fixed window)
	ThrottleAnonLimit int
	ThrottleAuthLimit int
	ThrottleWindow    time.Duration
	// Per-IP flood guard
	FloodRatePerSec float64
	FloodBurst      int
	// Misc
	JWTSecret     string
	AllowedOrigin string
}

func LoadConfig() *Config {
	// A specific config file can be requested via env var; otherwise try the
	// standard .env and fall back to system env vars (docker/prod).
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBUrl:    getEnv("DB_DSN", ""),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		CacheBackend:   getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getIntEnv("REDIS_DB", 0),
		CacheListTTL:   getDurationEnv("CACHE_LIST_TTL", 60*time.Second),
		CacheDetailTTL: getDurationEnv("CACHE_DETAIL_TTL", 300*time.Second),

		PageSizeDefault: getIntEnv("PAGE_SIZE_DEFAULT", 10),
		PageSizeMax:     getIntEnv("PAGE_SIZE_MAX", 100),

		ThrottleAnonLimit: getIntEnv("THROTTLE_ANON_PER_WINDOW", 100),
		ThrottleAuthLimit: getIntEnv("THROTTLE_AUTH_PER_WINDOW", 1000),
		ThrottleWindow:    getDurationEnv("THROTTLE_WINDOW", time.Minute),

		FloodRatePerSec: getFloatEnv("FLOOD_RATE_PER_SEC", 50),
		FloodBurst:      getIntEnv("FLOOD_BURST", 100),

		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.CacheBackend != "memory" && c.CacheBackend != "redis" {
		log.Fatalf("CRITICAL: CACHE_BACKEND must be 'memory' or 'redis', got %q", c.CacheBackend)
	}
	if c.PageSizeDefault < 1 || c.PageSizeDefault > c.PageSizeMax {
		log.Fatal("CRITICAL: PAGE_SIZE_DEFAULT must be in [1, PAGE_SIZE_MAX]")
	}
	if c.ThrottleAnonLimit < 1 || c.ThrottleAuthLimit < 1 {
		log.Fatal("CRITICAL: throttle limits must be positive")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Set JWT_SECRET in production.")
	}
}
