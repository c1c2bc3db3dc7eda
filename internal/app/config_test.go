package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/netinv-backend/internal/data/repos/testutil"
	"github.com/yungbote/netinv-backend/internal/platform/storage"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	if cfg.Import.MaxConcurrent != 2 {
		t.Fatalf("max concurrent: want=2 got=%d", cfg.Import.MaxConcurrent)
	}
	assert.Equal(t, 16, cfg.Import.MaxQueued)
	assert.Equal(t, 25, cfg.Import.ProgressEvery)
	assert.Equal(t, 3*time.Second, cfg.Elevation.Timeout)
	assert.Equal(t, "imports", cfg.Redis.Channel)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, storage.ModeLocal, cfg.Artifacts.StorageConfig().Mode)
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("IMPORT_MAX_QUEUED=3\nCORS_ALLOWED_ORIGINS=http://a.test,http://b.test\n"), 0o644))
	t.Setenv("IMPORT_MAX_CONCURRENT", "4")
	t.Setenv("PORT", ":9090")
	// godotenv.Load sets process variables; drop them after the test.
	t.Cleanup(func() {
		_ = os.Unsetenv("IMPORT_MAX_QUEUED")
		_ = os.Unsetenv("CORS_ALLOWED_ORIGINS")
	})

	cfg, err := LoadConfig(envFile, filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Import.MaxConcurrent)
	assert.Equal(t, 3, cfg.Import.MaxQueued)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"batch", map[string]string{"IMPORT_BATCH_SIZE": "0"}},
		{"concurrency", map[string]string{"IMPORT_MAX_CONCURRENT": "0"}},
		{"queue", map[string]string{"IMPORT_MAX_QUEUED": "-1"}},
		{"gcs bucket", map[string]string{"ARTIFACT_STORE": "gcs"}},
		{"store mode", map[string]string{"ARTIFACT_STORE": "s3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("%s: want error got nil", tc.name)
			}
		})
	}
}

func TestNewWiresSQLiteApp(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "app.db"))
	t.Setenv("IMPORT_UPLOAD_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("ARTIFACT_DIR", filepath.Join(dir, "artifacts"))
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	ctx := context.Background()
	a, err := New(ctx, testutil.Logger(t), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(ctx) })

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/audit", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, ok := a.Services.Registry.Get("network_import")
	assert.True(t, ok)
}
