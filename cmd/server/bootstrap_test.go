package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlesng35/roomrental/internal/app"
	"github.com/charlesng35/roomrental/internal/services"
)

func testConfig(t *testing.T, driver string) *app.Config {
	t.Helper()
	cfg, err := app.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Storage.Driver = driver
	if driver == "sqlite" {
		cfg.Storage.Path = filepath.Join(t.TempDir(), "roomrental.sqlite")
	}
	return cfg
}

func TestBootstrapMemoryStoreSeedsCatalogue(t *testing.T) {
	cfg := testConfig(t, "memory")

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer stack.Shutdown(context.Background(), zap.NewNop())

	require.Nil(t, stack.DB)
	require.NotNil(t, stack.Hub)
	require.NotNil(t, stack.Scheduler)

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var rooms []services.RoomView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.NotEmpty(t, rooms)

	w = httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBootstrapSQLiteStore(t *testing.T) {
	cfg := testConfig(t, "sqlite")
	cfg.Storage.Seed = false
	cfg.Realtime.Enabled = false

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer stack.Shutdown(context.Background(), zap.NewNop())

	require.NotNil(t, stack.DB)
	require.Nil(t, stack.Hub)

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())

	require.NoError(t, stack.Scheduler.RunOnce(context.Background()))
}

func TestBootstrapFallsBackWhenRedisUnreachable(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Cache.Redis.Enabled = true
	cfg.Cache.Redis.Address = "127.0.0.1:1"
	cfg.Cache.Redis.Timeout = 200 * time.Millisecond

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer stack.Shutdown(context.Background(), zap.NewNop())

	require.Nil(t, stack.Redis)
	require.NotContains(t, healthChecks(stack), "redis")
}

func TestLoadApplicationConfigPaths(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 9100\n"), 0o600))

	cfg, err := loadApplicationConfig(dir)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)

	cfg, err = loadApplicationConfig(file)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)

	_, err = loadApplicationConfig(filepath.Join(dir, "missing"))
	require.ErrorContains(t, err, "does not exist")
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSweepCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("storage:\n  driver: memory\n  seed: true\nserver:\n  log_level: error\n"), 0o600))

	out, err := runCommand(t, "sweep", "--config", dir)
	require.NoError(t, err)
	require.Contains(t, out, "sweep completed")
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rentals.sqlite")
	config := "storage:\n  driver: sqlite\n  seed: false\n  path: " + dbPath + "\nserver:\n  log_level: error\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0o600))

	out, err := runCommand(t, "migrate", "--config", dir)
	require.NoError(t, err)
	require.Contains(t, out, "migrations applied")
	require.FileExists(t, dbPath)

	memDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(memDir, "config.yaml"),
		[]byte("storage:\n  driver: memory\n"), 0o600))
	_, err = runCommand(t, "migrate", "--config", memDir)
	require.ErrorContains(t, err, "memory")
}
