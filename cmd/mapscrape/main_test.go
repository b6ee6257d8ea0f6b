package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/mapscrape/internal/config"
	"github.com/jackzampolin/mapscrape/internal/csvexport"
	"github.com/jackzampolin/mapscrape/internal/providers"
	"github.com/jackzampolin/mapscrape/internal/server"
	"github.com/jackzampolin/mapscrape/internal/types"
)

const mockConfig = `providers:
  local:
    type: mock
    enabled: true
defaults:
  provider: local
log:
  level: error
`

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() {
		cfgFile, homeDir, outputFormat = "", "", "yaml"
		searchCategory, searchLocation, searchProvider, searchOut = "", "", "", ""
		configForce = false
	})
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestSearchCommand_WritesExport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(mockConfig), 0o644))

	err := runCLI(t, "search", "--config", cfgPath, "--home", dir,
		"--category", "Coffee Shops", "--location", "Baku, Azerbaijan", "-o", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "exports", "coffee-shops-baku--azerbaijan.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), csvexport.BOM))

	rows, err := csvexport.Parse(string(data))
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "Mock Cafe", rows[1][0])
}

func TestSearchCommand_ExplicitOut(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(mockConfig), 0o644))
	out := filepath.Join(dir, "nested", "hotels.csv")

	err := runCLI(t, "search", "--config", cfgPath, "--home", dir,
		"--category", "Hotels", "--location", "Oslo", "--out", out)
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestSearchCommand_RequiresQuery(t *testing.T) {
	err := runCLI(t, "search", "--home", t.TempDir(), "--category", "Hotels")
	assert.Error(t, err)
}

func TestAPIExport_Check(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Latency = 0
	reg := providers.NewRegistry()
	reg.Register("mock", mock)
	reg.SetDefault("mock")

	srv, err := server.New(server.Config{Registry: reg, Logger: slog.New(slog.DiscardHandler)})
	require.NoError(t, err)
	_, err = srv.Session().Search(context.Background(),
		types.SearchQuery{Category: "Coffee Shops", Location: "Baku, Azerbaijan"}, "")
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	out := filepath.Join(t.TempDir(), "coffee.csv")
	require.NoError(t, runCLI(t, "api", "export", "--server", ts.URL, "--out", out, "--check"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	n, err := csvexport.Check(data)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAPIExport_CheckRejectsMalformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", csvexport.ContentType)
		_, _ = w.Write([]byte(csvexport.BOM + csvexport.Build(nil) + "\n\"only\",\"two\""))
	}))
	defer ts.Close()

	out := filepath.Join(t.TempDir(), "bad.csv")
	err := runCLI(t, "api", "export", "--server", ts.URL, "--out", out, "--check")
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	require.NoError(t, runCLI(t, "config", "init", "--config", path))
	mgr, err := config.NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", mgr.Get().Defaults.Provider)

	assert.Error(t, runCLI(t, "config", "init", "--config", path), "refuses to overwrite")
	assert.NoError(t, runCLI(t, "config", "init", "--config", path, "--force"))
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		cfg   config.LogCfg
		level slog.Level
		json  bool
	}{
		{config.LogCfg{Level: "debug", Format: "text"}, slog.LevelDebug, false},
		{config.LogCfg{Level: "WARN", Format: "json"}, slog.LevelWarn, true},
		{config.LogCfg{Level: "bogus"}, slog.LevelInfo, false},
	}
	for _, tt := range tests {
		logger := newLogger(tt.cfg)
		ctx := context.Background()
		assert.True(t, logger.Enabled(ctx, tt.level), "%+v", tt.cfg)
		assert.False(t, logger.Enabled(ctx, tt.level-1), "%+v", tt.cfg)
		_, isJSON := logger.Handler().(*slog.JSONHandler)
		assert.Equal(t, tt.json, isJSON)
	}
}
