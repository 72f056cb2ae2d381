package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "SkyFrame API", cfg.AppName)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, 5*time.Minute, cfg.StatsCacheTTL)
	require.Equal(t, 30, cfg.AdminRateLimit)
}

func TestLoadDoesNotFailOnMissingSecrets(t *testing.T) {
	// Unconfigured secrets must degrade, not crash.
	cfg, err := Load()
	require.NoError(t, err)
	require.Empty(t, cfg.JWTSecret)
	require.Empty(t, cfg.ServiceKey)
}

func TestHTTPAddress(t *testing.T) {
	require.Equal(t, ":8080", Config{AppPort: "8080"}.HTTPAddress())
	require.Equal(t, ":9000", Config{AppPort: ":9000"}.HTTPAddress())
}

func TestLoadRejectsBadCacheTTL(t *testing.T) {
	t.Setenv("SKYFRAME_STATS_CACHE_TTL", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
}
