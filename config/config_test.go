package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable LoadConfig reads. t.Setenv registers the
// restore; the Unsetenv after it makes the variable truly absent for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "REDIS_URL", "JWT_SECRET", "JWT_TOKEN_DURATION",
		"API_PORT", "ALPHA_VANTAGE_API_KEY", "INGEST_SYMBOLS",
		"INGEST_QUOTE_DELAY", "QUOTE_CACHE_TTL", "QUOTE_REFRESH_INTERVAL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.HasDB())
	assert.False(t, cfg.HasCache())
	assert.False(t, cfg.Auth.Configured())
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Empty(t, cfg.Ingest.Symbols)
	assert.Equal(t, 15*time.Second, cfg.Ingest.QuoteDelay)
	assert.Equal(t, time.Hour, cfg.Ingest.QuoteCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.Ingest.RefreshInterval)
}

func TestLoadConfig_FullyConfigured(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_TOKEN_DURATION", "24h")
	t.Setenv("API_PORT", "8080")
	t.Setenv("ALPHA_VANTAGE_API_KEY", " demo ")
	t.Setenv("INGEST_SYMBOLS", "aapl, msft ,,GOOG")
	t.Setenv("INGEST_QUOTE_DELAY", "2")
	t.Setenv("QUOTE_CACHE_TTL", "600")
	t.Setenv("QUOTE_REFRESH_INTERVAL", "5m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.HasDB())
	assert.True(t, cfg.HasCache())
	assert.True(t, cfg.Auth.Configured())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "demo", cfg.Ingest.AlphaVantageAPIKey)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, cfg.Ingest.Symbols)
	assert.Equal(t, 2*time.Second, cfg.Ingest.QuoteDelay)
	assert.Equal(t, 10*time.Minute, cfg.Ingest.QuoteCacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.Ingest.RefreshInterval)
}

func TestLoadConfig_CollectsAllErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_TOKEN_DURATION", "not-a-duration")
	t.Setenv("QUOTE_CACHE_TTL", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_TOKEN_DURATION")
	assert.Contains(t, err.Error(), "QUOTE_CACHE_TTL")
}

func TestParseSymbolList(t *testing.T) {
	t.Parallel()

	assert.Nil(t, parseSymbolList(""))
	assert.Nil(t, parseSymbolList(" , ,"))
	assert.Equal(t, []string{"SPY"}, parseSymbolList("spy"))
	assert.Equal(t, []string{"AAPL", "MSFT"}, parseSymbolList(" aapl ,MSFT"))
}
