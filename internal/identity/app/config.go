package app

import (
	"os"
	"strconv"
	"time"

	"github.com/crewlink/identity/internal/identity/mail"
	"github.com/crewlink/identity/internal/identity/service"
	"github.com/crewlink/identity/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim for session tokens

	SessionTTL time.Duration // Optional: session token lifetime (default: 24h)
	CodeTTL    time.Duration // Optional: one-time code lifetime (default: 5m)

	DatabaseFile string // Optional: path to SQLite database file (default: ./identity.db)
	PepperFile   string // Optional: path to pepper file for password hashing (default: ./pepper)

	SMTP mail.Config // Optional: empty host falls back to log-only delivery

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:       getEnvOrDefault("IDENTITY_ISSUER", "crewlink-identity"),
		SessionTTL:   getEnvDurationOrDefault("IDENTITY_SESSION_TTL", jwtx.DefaultSessionTTL),
		CodeTTL:      getEnvDurationOrDefault("IDENTITY_CODE_TTL", service.DefaultVerificationCodeTTL),
		DatabaseFile: getEnvOrDefault("IDENTITY_DATABASE_FILE", "identity.db"),
		PepperFile:   getEnvOrDefault("IDENTITY_PEPPER_FILE", "pepper"),
		SMTP: mail.Config{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			FromName: getEnvOrDefault("SMTP_FROM_NAME", "CrewLink"),
			UseTLS:   getEnvBoolOrDefault("SMTP_STARTTLS", true),
			UseSSL:   getEnvBoolOrDefault("SMTP_SSL", false),
		},
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accepts Go duration syntax ("1h", "30m", "90s") or bare minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
