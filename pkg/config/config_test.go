package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	require.Equal(t, EnvDevelopment, cfg.Env)
	require.Equal(t, "/api/v1", cfg.APIPrefix)
	require.Equal(t, "reporting_portal", cfg.Database.Name)
	require.True(t, cfg.Database.AutoMigrate)
	require.False(t, cfg.Ratings.CacheEnabled)
	require.Equal(t, 5*time.Minute, cfg.Ratings.CacheTTL)
	require.Equal(t, 5, cfg.Ratings.RateLimitBurst)
	require.Equal(t, 200, cfg.Reports.ListMax)
	require.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ALLOWED_ORIGINS", "https://portal.example.edu, ,https://admin.example.edu")
	v.Set("RATINGS_CACHE_TTL", "not-a-duration")
	v.Set("RATINGS_CACHE_ENABLED", true)
	v.Set("LOG_FILE", "logs/portal.log")

	cfg := fromViper(v)
	require.Equal(t, []string{"https://portal.example.edu", "https://admin.example.edu"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, 5*time.Minute, cfg.Ratings.CacheTTL)
	require.True(t, cfg.Ratings.CacheEnabled)
	require.Equal(t, "logs/portal.log", cfg.Log.File)
}
