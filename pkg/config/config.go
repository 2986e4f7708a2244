package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the process-wide configuration, built once at startup and passed
// into the container. No package keeps its own env access.
type Config struct {
	Server   ServerConfig
	Identity IdentityConfig
	Firebase FirebaseConfig
	Docstore DocstoreConfig
	Notifx   NotifxConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port        string
	CORSOrigins string
	AppVersion  string
	Debug       bool
}

// IdentityConfig selects and configures the identity provider adapter.
type IdentityConfig struct {
	// Provider is "firebase" or "memory".
	Provider string

	// TokenSecret signs session tokens in memory-provider mode.
	TokenSecret string

	// TokenTTL bounds session tokens in memory-provider mode.
	TokenTTL time.Duration
}

// DocstoreConfig selects the document store adapter.
type DocstoreConfig struct {
	// Provider is "firestore" or "memory".
	Provider string
}

// NotifxConfig configures outbound email for the memory identity provider.
type NotifxConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	AWSRegion   string
}

// Load builds the configuration from the environment.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			AppVersion:  getEnv("APP_VERSION", "1.0.0"),
			Debug:       getEnvBool("DEBUG", false),
		},
		Identity: IdentityConfig{
			Provider:    getEnv("IDENTITY_PROVIDER", "firebase"),
			TokenSecret: getEnv("IDENTITY_TOKEN_SECRET", ""),
			TokenTTL:    getEnvDuration("IDENTITY_TOKEN_TTL", time.Hour),
		},
		Firebase: loadFirebaseConfig(),
		Docstore: DocstoreConfig{
			Provider: getEnv("DOCSTORE_PROVIDER", "firestore"),
		},
		Notifx: NotifxConfig{
			Provider:    getEnv("NOTIFX_PROVIDER", "console"),
			FromAddress: getEnv("NOTIFX_FROM_ADDRESS", "noreply@jelajah.id"),
			FromName:    getEnv("NOTIFX_FROM_NAME", "Jelajah"),
			AWSRegion:   getEnv("NOTIFX_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
