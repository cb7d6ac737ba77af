package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/nwsalerts/pkg/repository"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_BadSeed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{DB: ":memory:", Seed: "testdata/missing.sql", Listen: "127.0.0.1:0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestRun_ImportOnly(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "import.db") + "?mode=rwc"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := Opts{DB: dsn}
	opts.Import.Locations = "testdata/locations.csv"
	opts.Import.Codes = "testdata/codes.csv"
	opts.Import.Only = true
	require.NoError(t, run(ctx, opts))

	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: dsn, MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	defer repos.Close()

	n, err := repos.Location.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	loc, err := repos.Location.ByZip(ctx, "75201")
	require.NoError(t, err)
	assert.Equal(t, "dallas", loc.City)

	code, err := repos.Location.CountyCode(ctx, "co", "denver")
	require.NoError(t, err)
	assert.Equal(t, "031", code)
}

func TestRun_ImportMissingFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	opts := Opts{DB: ":memory:"}
	opts.Import.Codes = "testdata/missing.csv"
	err := run(ctx, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to import directory")
	assert.Contains(t, err.Error(), "open county codes file")
}

func TestRun_ServerStartStop(t *testing.T) {
	port := freePort(t)
	t.Setenv("NWS_TEST_PORT", strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: "testdata/config.yml"}) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 5*time.Second, 50*time.Millisecond)

	// unknown zip never reaches the feed server
	resp, err := http.Get(base + "/api/v1/alerts?zip=99999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "no_location", body["error"])
	assert.InDelta(t, 10, body["limit"], 0.0001)

	resp2, err := http.Get(base + "/api/v1/alerts?zip=99999&scope=planet")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	resp3, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	defer resp3.Body.Close()
	metricsBody, err := io.ReadAll(resp3.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metricsBody), `nwsalerts_alert_sets_total{outcome="no_location",scope="county"} 1`)
	assert.Contains(t, string(metricsBody), "nwsalerts_feed_cache_misses_total 0")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults with overrides", func(t *testing.T) {
		cfg, err := loadConfig(Opts{Listen: ":9999", DB: ":memory:", Seed: "seed.sql"})
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.Server.Listen)
		assert.Equal(t, ":memory:", cfg.Database.DSN)
		assert.Equal(t, "seed.sql", cfg.Database.Seed)
		assert.Equal(t, 3*time.Minute, cfg.Feed.CacheTTL)
	})

	t.Run("file", func(t *testing.T) {
		t.Setenv("NWS_TEST_PORT", "18080")
		cfg, err := loadConfig(Opts{Config: "testdata/config.yml"})
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:18080", cfg.Server.Listen)
		assert.Equal(t, "testdata/seed.sql", cfg.Database.Seed)
		assert.Equal(t, 10, cfg.Alerts.DefaultLimit)
	})
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		SetupLog(true)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		SetupLog(false)
	})

	t.Run("with secrets", func(t *testing.T) {
		SetupLog(true, "secret1", "secret2")
	})
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}
