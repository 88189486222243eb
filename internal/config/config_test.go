package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Engine.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.EngineTimeout())
	assert.Equal(t, "TRY", cfg.Engine.DefaultCurrency)
	assert.Equal(t, 30*time.Second, cfg.HealthInterval())
	assert.True(t, cfg.Prediction.IncludeNeighborhood)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.GRPC.Enabled)
	assert.Empty(t, cfg.Locations.File)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("ENGINE_BASE_URL", "http://engine:9000")
	t.Setenv("ENGINE_TIMEOUT_SECONDS", "5")
	t.Setenv("PREDICTION_INCLUDE_NEIGHBORHOOD", "false")
	t.Setenv("DB_ENABLED", "1")
	t.Setenv("GRPC_PORT", "not-a-number")

	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "http://engine:9000", cfg.Engine.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.EngineTimeout())
	assert.False(t, cfg.Prediction.IncludeNeighborhood)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, 9090, cfg.GRPC.Port)
}

func TestLoadConfig_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nENGINE_DEFAULT_CURRENCY=USD\n"), 0o600))

	t.Setenv("ENGINE_DEFAULT_CURRENCY", "EUR")
	// godotenv выставляет переменные процесса; вернем их после теста
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg := LoadConfig(path)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "EUR", cfg.Engine.DefaultCurrency)
}
