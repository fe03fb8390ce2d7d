package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"campusconnect/internal/moderation"
)

const (
	defaultPort          = "8080"
	defaultSessionSecret = "secret_key_change_me"
	defaultDatabaseURL   = "host=localhost user=postgres password=postgres dbname=campusconnect port=5432 sslmode=disable TimeZone=UTC"
	defaultCacheSize     = 500
	defaultCacheTTL      = 10 * time.Minute
	defaultModerationRPS = 5
)

// Config holds process settings read from the environment.
type Config struct {
	DatabaseURL   string
	Port          string
	SessionSecret string
	RedisAddr     string
	LogLevel      string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	ModerationTimeout   time.Duration
	ModerationRPS       float64
	ModerationCacheSize int
	ModerationCacheTTL  time.Duration
	PolicyFile          string
	PatternFilter       bool
	SentimentScoring    bool
}

// Load reads the environment. Call godotenv.Load first if a .env file
// should be honoured.
func Load() Config {
	return Config{
		DatabaseURL:   getEnv("DATABASE_URL", defaultDatabaseURL),
		Port:          getEnv("PORT", defaultPort),
		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", moderation.DefaultOpenAIBaseURL),
		OpenAIModel:   getEnv("OPENAI_MODERATION_MODEL", moderation.DefaultOpenAIModel),

		ModerationTimeout:   getDuration("MODERATION_TIMEOUT", moderation.DefaultRemoteTimeout),
		ModerationRPS:       getFloat("MODERATION_RPS", defaultModerationRPS),
		ModerationCacheSize: getInt("MODERATION_CACHE_SIZE", defaultCacheSize),
		ModerationCacheTTL:  getDuration("MODERATION_CACHE_TTL", defaultCacheTTL),
		PolicyFile:          os.Getenv("MODERATION_POLICY_FILE"),
		PatternFilter:       getBool("MODERATION_PATTERN_FILTER", false),
		SentimentScoring:    getBool("MODERATION_SENTIMENT_SCORING", false),
	}
}

// ModerationPolicy builds the moderation policy: built-in defaults, then the
// policy file if one is set, then the env toggles.
func (c Config) ModerationPolicy() (moderation.Config, error) {
	policy := moderation.DefaultConfig()
	if c.PolicyFile != "" {
		p, err := moderation.LoadPolicyFile(c.PolicyFile, policy)
		if err != nil {
			return policy, fmt.Errorf("load moderation policy %s: %w", c.PolicyFile, err)
		}
		policy = p
	}
	if c.PatternFilter {
		policy.PatternFilterEnabled = true
	}
	if c.SentimentScoring {
		policy.SentimentScoringEnabled = true
	}
	policy.RemoteTimeout = c.ModerationTimeout
	return policy, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getDuration accepts Go durations ("15s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
