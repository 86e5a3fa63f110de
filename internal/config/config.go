package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds every setting the server needs. It is built once at
// process start and passed by reference into each constructor; nothing
// mutates it afterwards.
type Config struct {
	// HTTP server
	ServerAddr string

	// Completion endpoint (OpenAI-compatible, e.g. OpenRouter)
	CompletionAPIKey  string
	CompletionBaseURL string
	// GenerationModel produces the user-facing reply.
	GenerationModel string
	// UtilityModel is the smaller model used for analysis, response
	// decomposition and translation.
	UtilityModel string

	// GenerationTimeout bounds non-streaming generation calls.
	// UtilityTimeout bounds analysis/decomposition/translation calls.
	GenerationTimeout time.Duration
	UtilityTimeout    time.Duration

	// Persistence
	DatabaseDSN string

	// Auth
	JWTSecret      []byte
	AccessTokenTTL time.Duration
	GoogleClientID string
	AppleClientID  string

	// Redis (optional; rate limiting falls back to in-memory)
	RedisURL      string
	RedisPassword string

	// Rate limiting
	RateLimitWindow  time.Duration
	RateLimitMaxHits int
}

// Load reads configuration from the environment. Missing required
// values are reported by the caller, not here; Load never exits.
func Load() *Config {
	return &Config{
		ServerAddr: GetEnvOrDefault("SERVER_ADDR", ":8080"),

		CompletionAPIKey:  GetEnvOrDefault("OPENROUTER_API_KEY", ""),
		CompletionBaseURL: GetEnvOrDefault("OPENROUTER_API_ENDPOINT", "https://openrouter.ai/api/v1"),
		GenerationModel:   GetEnvOrDefault("OPENROUTER_MODEL_NAME", "anthropic/claude-3-sonnet"),
		UtilityModel:      GetEnvOrDefault("OPENROUTER_UTILITY_MODEL", "anthropic/claude-3-haiku"),

		GenerationTimeout: getDurationOrDefault("GENERATION_TIMEOUT", 60*time.Second),
		UtilityTimeout:    getDurationOrDefault("UTILITY_TIMEOUT", 30*time.Second),

		DatabaseDSN: GetEnvOrDefault("DATABASE_DSN", "sway.db"),

		JWTSecret:      []byte(GetEnvOrDefault("SECRET_KEY", "")),
		AccessTokenTTL: getDurationOrDefault("ACCESS_TOKEN_TTL", 24*time.Hour),
		GoogleClientID: GetEnvOrDefault("GOOGLE_CLIENT_ID", ""),
		AppleClientID:  GetEnvOrDefault("APPLE_CLIENT_ID", ""),

		RedisURL:      GetEnvOrDefault("REDIS_URL", ""),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),

		RateLimitWindow:  getDurationOrDefault("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMaxHits: getIntOrDefault("RATE_LIMIT_MAX_HITS", 30),
	}
}

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration in environment, using default")
		return defaultValue
	}
	return d
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer in environment, using default")
		return defaultValue
	}
	return n
}
