package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration for the portal.
type Server struct {
	Addr    string
	OpsAddr string

	// DatabaseURL is optional; when empty the server runs on in-memory stores.
	DatabaseURL string
	// RedisURL is optional; when empty session revocation is tracked in memory.
	RedisURL string

	JWTSigningKey string
	JWTIssuer     string
	SessionTTL    time.Duration
	SessionCookie string

	LogLevel string
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Server {
	_ = godotenv.Load()

	ttl := 8 * time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	return Server{
		Addr:          envOr("HR_PORTAL_ADDR", ":8080"),
		OpsAddr:       envOr("HR_PORTAL_OPS_ADDR", ":9090"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("JWT_ISSUER", "hrportal"),
		SessionTTL:    ttl,
		SessionCookie: envOr("SESSION_COOKIE", "hrportal_session"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
