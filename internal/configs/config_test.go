package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// missingEnv - путь к несуществующему .env, чтобы тест не зависел от рабочей директории.
func missingEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

// unsetEnv убирает переменные на время теста, t.Setenv вернет их обратно.
func unsetEnv(t *testing.T, keys ...string) {
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	unsetEnv(t, "APP_NAME", "BACKEND_SOURCE", "FAVORITES_TOGGLE_LOCK", "LOAD_TIMEOUT",
		"CATALOG_PAGE_SIZE", "PORT", "CORS_ALLOWED_ORIGINS", "FLUENTBIT_ENABLED")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig(missingEnv(t))
	require.NoError(t, err)

	assert.Equal(t, "listing-service", cfg.AppName)
	assert.Equal(t, BackendStatic, cfg.Listing.Backend)
	assert.Equal(t, "shared", cfg.Listing.FavoritesToggleLock)
	assert.Equal(t, 15*time.Second, cfg.Listing.LoadTimeout)
	assert.Equal(t, 20, cfg.Listing.PageSize)
	assert.Equal(t, 10000, cfg.Listing.MaxViewers)
	assert.Equal(t, "8080", cfg.Rest.PORT)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Rest.AllowedOrigins)
	assert.False(t, cfg.FluentBit.Enabled)
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BACKEND_SOURCE", BackendStatic)

	_, err := LoadConfig(missingEnv(t))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadConfig_Backends(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	t.Run("postgres requires DATABASE_URL", func(t *testing.T) {
		t.Setenv("BACKEND_SOURCE", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := LoadConfig(missingEnv(t))
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("postgres", func(t *testing.T) {
		t.Setenv("BACKEND_SOURCE", "Postgres")
		t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
		t.Setenv("DB_AUTO_MIGRATE", "false")
		cfg, err := LoadConfig(missingEnv(t))
		require.NoError(t, err)
		assert.Equal(t, BackendPostgres, cfg.Listing.Backend)
		assert.False(t, cfg.Database.AutoMigrate)
	})

	t.Run("records", func(t *testing.T) {
		t.Setenv("BACKEND_SOURCE", "records")
		t.Setenv("RECORDS_API_URL", "https://records.example.com/api")
		t.Setenv("RECORDS_PROJECT_ID", "p1")
		t.Setenv("RECORDS_API_TIMEOUT", "3s")
		cfg, err := LoadConfig(missingEnv(t))
		require.NoError(t, err)
		assert.Equal(t, "p1", cfg.Records.ProjectID)
		assert.Equal(t, 3*time.Second, cfg.Records.Timeout)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Setenv("BACKEND_SOURCE", "mongo")
		_, err := LoadConfig(missingEnv(t))
		assert.ErrorContains(t, err, "BACKEND_SOURCE")
	})
}

func TestLoadConfig_ToggleLockAndDurations(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BACKEND_SOURCE", BackendStatic)
	t.Setenv("FAVORITES_TOGGLE_LOCK", "per_property")
	t.Setenv("LOAD_TIMEOUT", "0")
	t.Setenv("VIEWER_IDLE_TTL", "nonsense")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := LoadConfig(missingEnv(t))
	require.NoError(t, err)
	assert.Equal(t, "per_property", cfg.Listing.FavoritesToggleLock)
	assert.Equal(t, time.Duration(0), cfg.Listing.LoadTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Listing.ViewerIdleTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Rest.AllowedOrigins)

	t.Setenv("FAVORITES_TOGGLE_LOCK", "global")
	_, err = LoadConfig(missingEnv(t))
	assert.Error(t, err)
}

func TestLoadConfig_FluentBitWithoutHostIsDisabled(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BACKEND_SOURCE", BackendStatic)
	t.Setenv("FLUENTBIT_ENABLED", "true")
	t.Setenv("FLUENTBIT_HOST", "")

	cfg, err := LoadConfig(missingEnv(t))
	require.NoError(t, err)
	assert.False(t, cfg.FluentBit.Enabled)
}
