package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "radioclub.db", cfg.DatabasePath)
	assert.Equal(t, "/media", cfg.UploadURLPath)
	assert.Equal(t, 9, cfg.BlogPageSize)
	assert.Equal(t, 12, cfg.GalleryPageSize)
	assert.Equal(t, "admin@ea1rkv.es", cfg.Seed.AdminEmail)
	assert.Empty(t, cfg.SMTP.Host)
	assert.Equal(t, "Europe/Madrid", cfg.TimeZone)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())
}

func TestLoadLegacyAndPrefixedEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/legacy.db")
	t.Setenv("RADIOCLUB_DATABASE_PATH", "/tmp/prefixed.db")
	t.Setenv("RADIOCLUB_SMTP_HOST", "smtp.example.com")
	t.Setenv("RADIOCLUB_UPLOAD_URL_PATH", "uploads/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/tmp/prefixed.db", cfg.DatabasePath)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, "/uploads", cfg.UploadURLPath)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := []byte("site_base_url: https://ea1rkv.es/\nblog_page_size: 5\nsmtp:\n  host: mail.ea1rkv.es\n  port: 465\n  tls: SSL\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://ea1rkv.es", cfg.SiteBaseURL)
	assert.Equal(t, 5, cfg.BlogPageSize)
	assert.Equal(t, "mail.ea1rkv.es", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "ssl", cfg.SMTP.TLS)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadTimeZone(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RADIOCLUB_TIME_ZONE", "Atlantic/Canary")

	cfg, err := Load("")
	require.NoError(t, err)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Atlantic/Canary", loc.String())

	t.Setenv("RADIOCLUB_TIME_ZONE", "Europe/Vigo")
	_, err = Load("")
	assert.ErrorContains(t, err, "Europe/Vigo")
}

func TestLocationOfLiteralConfig(t *testing.T) {
	loc, err := AppConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeZone, loc.String())
}
