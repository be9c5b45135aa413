package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	// CORS
	CORSAllowedOrigins []string

	// Studio schedule
	StudioTimezone    string
	TrialWindowDays   int
	DefaultCurrency   string
	FunnelSessionTTL  time.Duration
	CheckoutDelay     time.Duration
	OrderPollInterval time.Duration
	OrderPollMax      int

	// Booking guardrails
	MaxBookingsPerEmail int
	BookingWindowHours  int

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Conversion tracking
	PixelEndpoint        string
	PixelID              string
	ConversionsAPIURL    string
	ConversionsAPIToken  string
	TrackingTestCode     string
	UseMemoryQueue       bool
	TrackingQueueURL     string
	TrackingWorkerCount  int
	TrackingSendTimeout  time.Duration
	GiftCardRendererURL  string
	CheckoutProviderBase string

	// Admin auth
	AdminJWTSecret string

	// AWS (SQS tracking queue, SES email)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Email
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),

		StudioTimezone:    getEnv("STUDIO_TIMEZONE", "America/Santiago"),
		TrialWindowDays:   getEnvAsInt("TRIAL_WINDOW_DAYS", 14),
		DefaultCurrency:   getEnv("DEFAULT_CURRENCY", "CLP"),
		FunnelSessionTTL:  getEnvAsDuration("FUNNEL_SESSION_TTL", 45*time.Minute),
		CheckoutDelay:     getEnvAsDuration("CHECKOUT_REDIRECT_DELAY", 1200*time.Millisecond),
		OrderPollInterval: getEnvAsDuration("ORDER_POLL_INTERVAL", 3*time.Second),
		OrderPollMax:      getEnvAsInt("ORDER_POLL_MAX_ATTEMPTS", 40),

		MaxBookingsPerEmail: getEnvAsInt("MAX_BOOKINGS_PER_EMAIL", 3),
		BookingWindowHours:  getEnvAsInt("BOOKING_WINDOW_HOURS", 24),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		PixelEndpoint:        getEnv("PIXEL_ENDPOINT", ""),
		PixelID:              getEnv("PIXEL_ID", ""),
		ConversionsAPIURL:    getEnv("CONVERSIONS_API_URL", ""),
		ConversionsAPIToken:  getEnv("CONVERSIONS_API_TOKEN", ""),
		TrackingTestCode:     getEnv("TRACKING_TEST_CODE", ""),
		UseMemoryQueue:       getEnvAsBool("USE_MEMORY_QUEUE", false),
		TrackingQueueURL:     getEnv("TRACKING_QUEUE_URL", ""),
		TrackingWorkerCount:  getEnvAsInt("TRACKING_WORKER_COUNT", 2),
		TrackingSendTimeout:  getEnvAsDuration("TRACKING_SEND_TIMEOUT", 5*time.Second),
		GiftCardRendererURL:  getEnv("GIFTCARD_RENDERER_URL", ""),
		CheckoutProviderBase: getEnv("CHECKOUT_PROVIDER_BASE_URL", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Auka Wellness"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Auka Wellness"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
