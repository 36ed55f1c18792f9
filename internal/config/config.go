package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// SearchConfig tunes the places search orchestration.
type SearchConfig struct {
	Quota        int     // unique candidates to accumulate before stopping
	Floor        int     // below this, the query ladder advances
	RadiusMeters float64 // locationBias circle radius
	Region       string  // appended to every text query
	Fanout       bool    // search center plus four cardinal offsets
	OffsetMeters float64 // distance of each cardinal offset from center
}

// SMTPConfig carries outbound mail settings. Empty Host disables real delivery.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	JWTSecret       string
	Port            string
	TokenTTL        time.Duration
	RefreshTTL      time.Duration
	PlacesAPIKey    string
	PlacesBaseURL   string
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	GoogleClientID  string
	PhoneRegion     string
	Search          SearchConfig
	RateLimitNearby RateLimitConfig
	SMTP            SMTPConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		Port:           getEnv("PORT", "8080"),
		TokenTTL:       parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		RefreshTTL:     parseDuration(getEnv("JWT_REFRESH_TTL", "168h"), 168*time.Hour),
		PlacesAPIKey:   os.Getenv("GOOGLE_PLACES_API_KEY"),
		PlacesBaseURL:  getEnv("PLACES_BASE_URL", "https://places.googleapis.com"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		GeminiBaseURL:  getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		PhoneRegion:    getEnv("PHONE_REGION", "PH"),
		Search: SearchConfig{
			Quota:        parseInt(getEnv("SEARCH_QUOTA", "50"), 50),
			Floor:        parseInt(getEnv("SEARCH_FLOOR", "10"), 10),
			RadiusMeters: parseFloat(getEnv("SEARCH_RADIUS", "2000"), 2000),
			Region:       getEnv("SEARCH_REGION", "PH"),
			Fanout:       parseBool(getEnv("SEARCH_FANOUT", "false")),
			OffsetMeters: parseFloat(getEnv("SEARCH_FANOUT_OFFSET", "1500"), 1500),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "no-reply@choosee.app"),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_NEARBY", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_NEARBY value: %w", err)
	}
	cfg.RateLimitNearby = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseFloat(input string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseBool(input string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	if err != nil {
		return false
	}
	return v
}
