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
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Clinic scheduling window
	ClinicOpeningTime string
	ClinicClosingTime string
	SlotInterval      time.Duration

	// Booking conversation
	SessionTTL time.Duration

	// Email validation (MX lookup)
	MXLookupTimeout time.Duration
	MXRetryDelay    time.Duration

	// Symptom classifier sidecar
	ClassifierURL       string
	ClassifierTimeout   time.Duration
	ConfidenceThreshold float64

	// Email delivery
	EmailProvider     string // "sendgrid", "ses" or "stub"
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string
	AWSRegion         string

	AdminJWTSecret     string
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		ClinicOpeningTime: getEnv("CLINIC_OPENING_TIME", "07:00"),
		ClinicClosingTime: getEnv("CLINIC_CLOSING_TIME", "20:30"),
		SlotInterval:      getEnvAsDuration("SLOT_INTERVAL", 30*time.Minute),

		SessionTTL: getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		MXLookupTimeout: getEnvAsDuration("MX_LOOKUP_TIMEOUT", 5*time.Second),
		MXRetryDelay:    getEnvAsDuration("MX_RETRY_DELAY", 2*time.Second),

		ClassifierURL:       getEnv("CLASSIFIER_URL", ""),
		ClassifierTimeout:   getEnvAsDuration("CLASSIFIER_TIMEOUT", 10*time.Second),
		ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.7),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Medichat"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Medichat"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
