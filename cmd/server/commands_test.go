package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/radioclub/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCommandState() {
	cfgFile = ""
	seedDemo = false
	superuserName, superuserEmail, superuserPassword = "", "", ""
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommandState()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "radioclub.yaml")
	content := "database_path: " + filepath.Join(dir, "club.db") + "\n" +
		"upload_dir: " + filepath.Join(dir, "media") + "\n" +
		"log_level: error\n" +
		"seed:\n  admin_username: admin\n  admin_password: clave-de-prueba\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetCommandState()
		if db.DB != nil {
			if sqlDB, err := db.DB.DB(); err == nil {
				sqlDB.Close()
			}
			db.DB = nil
		}
	})
	return path
}

func countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(model).Count(&n).Error)
	return n
}

func TestSeedCommandIsIdempotent(t *testing.T) {
	path := writeTestConfig(t)
	t.Setenv("RADIOCLUB_SEED_ADMIN_USERNAME", "ea1rkv")

	out, err := runCommand(t, "--config", path, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "pages: 14, board members: 1, form fields: 4, settings: 8")
	assert.Equal(t, filepath.Join(filepath.Dir(path), "club.db"), appConfig.DatabasePath)

	pages := countRows(t, &db.Page{})
	users := countRows(t, &db.User{})
	assert.EqualValues(t, 14, pages)
	assert.EqualValues(t, 1, users)

	var admin db.User
	require.NoError(t, db.DB.Where("username = ?", "ea1rkv").First(&admin).Error)
	assert.True(t, admin.CheckPassword("clave-de-prueba"))

	out, err = runCommand(t, "--config", path, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "pages: 0, board members: 0, form fields: 0, settings: 0")
	assert.Equal(t, pages, countRows(t, &db.Page{}))
	assert.Equal(t, users, countRows(t, &db.User{}))

	out, err = runCommand(t, "--config", path, "seed", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "demo categories: 3, demo pages: 7")
	assert.EqualValues(t, 21, countRows(t, &db.Page{}))
}

func TestCreateSuperuserCommand(t *testing.T) {
	path := writeTestConfig(t)

	_, err := runCommand(t, "--config", path, "createsuperuser", "--username", "ea1iq")
	assert.ErrorContains(t, err, "--username and --password are required")

	out, err := runCommand(t, "--config", path, "createsuperuser", "--username", "ea1iq", "--email", "ea1iq@ea1rkv.es", "--password", "secreto")
	require.NoError(t, err)
	assert.Contains(t, out, "created user ea1iq")

	out, err = runCommand(t, "--config", path, "createsuperuser", "--username", "ea1iq", "--password", "otra")
	require.NoError(t, err)
	assert.Contains(t, out, "user ea1iq already exists")
	assert.EqualValues(t, 1, countRows(t, &db.User{}))

	var user db.User
	require.NoError(t, db.DB.Where("username = ?", "ea1iq").First(&user).Error)
	assert.True(t, user.CheckPassword("secreto"))
}

func TestMissingConfigFileFails(t *testing.T) {
	writeTestConfig(t)
	_, err := runCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "seed")
	assert.ErrorContains(t, err, "read config file")
}

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for level, want := range cases {
		l := newLogger(io.Discard, level)
		assert.True(t, l.Enabled(ctx, want), "level %q should enable %s", level, want)
		if want > slog.LevelDebug {
			assert.False(t, l.Enabled(ctx, want-4), "level %q should not enable %s", level, want-4)
		}
	}

	var buf bytes.Buffer
	newLogger(&buf, "warn").Info("hidden")
	newLogger(&buf, "warn").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
