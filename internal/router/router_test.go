package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/radioclub/internal/config"
	"github.com/radioclub/internal/db"
	"github.com/radioclub/internal/mailer"
	"github.com/radioclub/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func testConfig(uploadDir string) config.AppConfig {
	return config.AppConfig{
		SessionSecret:   "test-secret",
		UploadDir:       uploadDir,
		UploadURLPath:   "/media",
		BlogPageSize:    9,
		GalleryPageSize: 12,
	}
}

func newTestRouter(t *testing.T, gdb *gorm.DB, uploadDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r, err := SetupRouter(testConfig(uploadDir), Options{
		DB:     gdb,
		Logger: quietLogger(),
		Mailer: mailer.NewConsoleMailer(quietLogger()),
	})
	require.NoError(t, err)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestSetupRouterRequiresDatabase(t *testing.T) {
	db.DB = nil
	_, err := SetupRouter(testConfig(t.TempDir()), Options{Logger: quietLogger()})
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t, setupRouterTestDB(t), t.TempDir())

	rr := get(r, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, rr.Body.String())
}

func TestServesUploadsAndStaticFiles(t *testing.T) {
	uploadDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(uploadDir, "documents"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "documents", "bases.txt"), []byte("bases del concurso"), 0o644))

	r := newTestRouter(t, setupRouterTestDB(t), uploadDir)

	rr := get(r, "/media/documents/bases.txt")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "bases del concurso", rr.Body.String())

	rr = get(r, "/static/css/site.css")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Body.String())
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	r := newTestRouter(t, setupRouterTestDB(t), t.TempDir())

	get(r, "/healthz")
	get(r, "/no-existe/")

	rr := get(r, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `radioclub_http_requests_total{code="200",method="GET",route="/healthz"} 1`)
	assert.Contains(t, body, `radioclub_http_requests_total{code="404",method="GET",route="page"} 1`)
}

func TestSeededSiteIsServed(t *testing.T) {
	gdb := setupRouterTestDB(t)
	_, err := seed.Run(context.Background(), gdb, config.SeedConfig{AdminUsername: "admin", AdminPassword: "admin"}, quietLogger())
	require.NoError(t, err)

	r := newTestRouter(t, gdb, t.TempDir())

	rr := get(r, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html"))

	rr = get(r, "/radio/hf/")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = get(r, "/admin/api/pages")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = get(r, "/admin")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin", rr.Header().Get("Location"))
}
