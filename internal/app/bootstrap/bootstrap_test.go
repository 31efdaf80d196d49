package bootstrap

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcriptome/app/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	return config.Config{
		DBPath:         filepath.Join(dir, "transcriptome.db"),
		DBAutoMigrate:  true,
		AdminToken:     "token",
		SecretKey:      "secret",
		UploadDir:      filepath.Join(dir, "uploads"),
		UploadMaxBytes: 1 << 20,
		Assets:         config.AssetConfig{Driver: config.AssetDriverFilesystem},
		RateLimit:      config.RateLimitConfig{RequestsPerSecond: 10, Burst: 10, ClientTTL: time.Minute},
		Credits:        config.DefaultCredits,
	}
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestBuildServesDashboard(t *testing.T) {
	result, err := Build(context.Background(), Dependencies{Config: testConfig(t), Logger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, result.Cleanup()) })

	rec := httptest.NewRecorder()
	result.HTTPServer.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, 200, rec.Code)

	stats, err := result.TranscriptService.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTranscripts)
}

func TestBuildRequiresAdminToken(t *testing.T) {
	cfg := testConfig(t)
	cfg.AdminToken = ""

	_, err := Build(context.Background(), Dependencies{Config: cfg, Logger: discardLogger()})
	require.Error(t, err)
}

func TestBuildDataWithoutMigrationFailsOnMissingTable(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBAutoMigrate = false

	data, err := BuildData(context.Background(), Dependencies{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, data.Cleanup()) })

	_, err = data.TranscriptService.Dashboard(context.Background())
	require.Error(t, err)
}
