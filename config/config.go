// Package config provides configuration management for the marketdash backend.
// It handles loading and validation of configuration values from environment
// variables, with support for default values and collective error reporting.
//
// The database, quote cache and token-signing settings are deliberately
// optional: a missing collaborator degrades the matching API surface to 503
// instead of preventing startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// JWTSecret signs session tokens. Empty means token issuance and
	// verification are unavailable.
	JWTSecret     string
	TokenDuration time.Duration
}

// Configured reports whether token signing is available.
func (c *AuthConfig) Configured() bool {
	return c.JWTSecret != ""
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// IngestConfig holds settings for the market-data ingestion pipeline.
type IngestConfig struct {
	AlphaVantageAPIKey string
	Symbols            []string
	QuoteDelay         time.Duration
	QuoteCacheTTL      time.Duration
	// RefreshInterval > 0 enables the in-process periodic quote refresh.
	RefreshInterval time.Duration
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	// DatabaseURL is the PostgreSQL connection string. Empty means the
	// credential store is not configured.
	DatabaseURL string
	// RedisURL is the quote cache connection string. Empty means the cache
	// is not configured.
	RedisURL string
	Auth     *AuthConfig
	Server   *ServerConfig
	Ingest   *IngestConfig
}

// HasDB reports whether a credential store is configured.
func (c *AppConfig) HasDB() bool { return c.DatabaseURL != "" }

// HasCache reports whether a quote cache is configured.
func (c *AppConfig) HasCache() bool { return c.RedisURL != "" }

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvDuration parses an optional duration variable.
// Uses defaultValue if not set; appends an error if parsing fails.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// getOptionalEnvSeconds parses an optional integer variable expressed in seconds.
func getOptionalEnvSeconds(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	secs, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer seconds, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return time.Duration(secs) * time.Second
}

// parseSymbolList splits a comma-separated symbol list, uppercasing entries
// and dropping empties.
func parseSymbolList(raw string) []string {
	if raw == "" {
		return nil
	}
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// LoadConfig creates and returns an AppConfig by reading environment variables.
// It collects all errors encountered during loading and returns a single
// aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	databaseURL := getOptionalEnv("DATABASE_URL", "")
	redisURL := getOptionalEnv("REDIS_URL", "")

	authConfig := &AuthConfig{
		JWTSecret:     getOptionalEnv("JWT_SECRET", ""),
		TokenDuration: getOptionalEnvDuration("JWT_TOKEN_DURATION", 168*time.Hour, &errors), // 7 days
	}

	serverConfig := &ServerConfig{
		Port: getOptionalEnv("API_PORT", "3000"),
	}

	ingestConfig := &IngestConfig{
		AlphaVantageAPIKey: strings.TrimSpace(getOptionalEnv("ALPHA_VANTAGE_API_KEY", "")),
		Symbols:            parseSymbolList(getOptionalEnv("INGEST_SYMBOLS", "")),
		QuoteDelay:         getOptionalEnvSeconds("INGEST_QUOTE_DELAY", 15*time.Second, &errors),
		QuoteCacheTTL:      getOptionalEnvSeconds("QUOTE_CACHE_TTL", time.Hour, &errors),
		RefreshInterval:    getOptionalEnvDuration("QUOTE_REFRESH_INTERVAL", 0, &errors),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DatabaseURL: databaseURL,
		RedisURL:    redisURL,
		Auth:        authConfig,
		Server:      serverConfig,
		Ingest:      ingestConfig,
	}, nil
}
