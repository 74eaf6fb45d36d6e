package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Arrange
	noEnvFile(t)
	t.Setenv("JWT_SECRET", "secreto")

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "http://localhost:3000", cfg.PublicURL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 10, cfg.OutboxLimit)
	assert.False(t, cfg.UseKafka)
}

func TestLoadConfig_Overrides(t *testing.T) {
	noEnvFile(t)
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("USE_KAFKA", "true")
	t.Setenv("PUBLIC_PROTOCOL", "https")
	t.Setenv("PUBLIC_HOST", "blog.example.com")
	t.Setenv("REFRESH_TOKEN_TTL", "24h")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.UseKafka)
	assert.Equal(t, "https://blog.example.com", cfg.PublicURL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=desde-fichero\nHASH_COST=4\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	// godotenv no pisa variables existentes, aunque estén vacías
	for _, key := range []string{"JWT_SECRET", "HASH_COST"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "desde-fichero", cfg.JWTSecret)
	assert.Equal(t, 4, cfg.HashCost)
}

func TestLoadConfig_Invalid(t *testing.T) {
	noEnvFile(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("CACHE_TTL", "cinco")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "CACHE_TTL")
}
