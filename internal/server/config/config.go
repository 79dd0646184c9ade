package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server configuration loaded from environment variables,
// optionally seeded from a .env file
type Config struct {
	Addr         string
	DatabasePath string
	LogLevel     string

	JWTSecret      string
	AccessTokenTTL time.Duration
	JWTIssuer      string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	// OAuthAllowedHosts limits where the callback may deliver tokens.
	// Loopback hosts are always allowed for the CLI bridge.
	OAuthAllowedHosts []string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	// ResetBaseURL is the public URL reset links point at
	ResetBaseURL string
}

// Load reads configuration from the environment. A missing .env file is
// not an error; a missing JWT secret is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         getEnv("SERVER_ADDR", ":8080"),
		DatabasePath: getEnv("DATABASE_PATH", "lockmart.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: getEnvDuration("ACCESS_TOKEN_TTL", time.Hour),
		JWTIssuer:      getEnv("JWT_ISSUER", "lockmart"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		OAuthAllowedHosts:  getEnvList("OAUTH_ALLOWED_HOSTS", []string{"localhost", "127.0.0.1"}),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@lockmart.local"),
		ResetBaseURL: getEnv("RESET_BASE_URL", "http://localhost:8080"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// MailEnabled reports whether SMTP delivery is configured
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// OAuthEnabled reports whether the Google sign-in flow is configured
func (c *Config) OAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
