package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	BackendAPIURL       string
	TranscriptionAPIURL string
	FeedbackEndpoint    string

	SessionTTLMinutes int

	APIRateLimitRPS       float64
	APIRateLimitBurst     int
	APIMaxConcurrent      int
	APIMaxWaitMillis      int
	UploadLimitMB         int
	CleanupRefreshSeconds int

	RetryMaxAttempts       int
	RetryInitialBackoffMS  int
	RetryMaxBackoffMS      int
	RetryMultiplier        float64
	BreakerEnabled         bool
	BreakerMinRequests     int
	BreakerFailureRatio    float64
	BreakerOpenTimeoutSecs int
	BreakerHalfOpenCalls   int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		BackendAPIURL:       mustEnv("BACKEND_API_URL", "http://localhost:8000"),
		TranscriptionAPIURL: mustEnv("TRANSCRIPTION_API_URL", "http://localhost:8001"),
		FeedbackEndpoint:    mustEnv("FEEDBACK_ENDPOINT", "https://formspree.io/f/xyzpeyjj"),

		SessionTTLMinutes: mustEnvInt("SESSION_TTL_MINUTES", 60),

		APIRateLimitRPS:       mustEnvFloat("API_RATE_LIMIT_RPS", 50),
		APIRateLimitBurst:     mustEnvInt("API_RATE_LIMIT_BURST", 100),
		APIMaxConcurrent:      mustEnvInt("API_MAX_CONCURRENT", 64),
		APIMaxWaitMillis:      mustEnvInt("API_MAX_WAIT_MS", 200),
		UploadLimitMB:         mustEnvInt("UPLOAD_LIMIT_MB", 32),
		CleanupRefreshSeconds: mustEnvInt("CLEANUP_REFRESH_SECONDS", 2),

		RetryMaxAttempts:       mustEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialBackoffMS:  mustEnvInt("RETRY_INITIAL_BACKOFF_MS", 100),
		RetryMaxBackoffMS:      mustEnvInt("RETRY_MAX_BACKOFF_MS", 2000),
		RetryMultiplier:        mustEnvFloat("RETRY_MULTIPLIER", 2.0),
		BreakerEnabled:         mustEnvBool("BREAKER_ENABLED", true),
		BreakerMinRequests:     mustEnvInt("BREAKER_MIN_REQUESTS", 10),
		BreakerFailureRatio:    mustEnvFloat("BREAKER_FAILURE_RATIO", 0.5),
		BreakerOpenTimeoutSecs: mustEnvInt("BREAKER_OPEN_TIMEOUT_SECONDS", 30),
		BreakerHalfOpenCalls:   mustEnvInt("BREAKER_HALF_OPEN_CALLS", 2),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
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

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
