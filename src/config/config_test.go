package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"moirai-dashboard/src/provider"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moirai.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearEnv unsets every variable Load reads so the host environment does
// not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{"MOIRAI_CONFIG", "PORT", "DEBUG", "STATIC_DIR", "LOG_LEVEL", "LOG_FORMAT",
		"STATS_PERIOD_DAYS", "BUILDS_PER_PAGE", "CPU_COST_PER_HOUR", "FILTER_EMPTY_REPOS"}
	for _, suffix := range []string{"URL", "TOKEN", "NAME", "TYPE"} {
		keys = append(keys, "CI_SERVER_"+suffix)
		for i := 1; i <= MaxNumberedServers; i++ {
			keys = append(keys, "CI_SERVER_"+strconv.Itoa(i)+"_"+suffix)
		}
	}
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "80", cfg.Port)
	require.Equal(t, DefaultSettings(), cfg.Settings)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Empty(t, cfg.Servers)
}

func TestLoad_SingleAndNumberedServers(t *testing.T) {
	clearEnv(t)
	t.Setenv("CI_SERVER_URL", "https://ci.example.com/")
	t.Setenv("CI_SERVER_TOKEN", "tok-0")
	t.Setenv("CI_SERVER_2_URL", "https://drone.example.com")
	t.Setenv("CI_SERVER_2_TOKEN", "tok-2")
	t.Setenv("CI_SERVER_2_NAME", "Drone")
	t.Setenv("CI_SERVER_2_TYPE", "drone")
	t.Setenv("CI_SERVER_3_URL", "https://no-token.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 2)

	require.Equal(t, ServerConfig{ID: "server-0", Name: "CI Server", URL: "https://ci.example.com", Token: "tok-0", Type: "auto"}, cfg.Servers[0])
	require.Equal(t, ServerConfig{ID: "server-2", Name: "Drone", URL: "https://drone.example.com", Token: "tok-2", Type: "drone"}, cfg.Servers[1])

	servers := cfg.ProviderServers()
	require.Equal(t, provider.KindAuto, servers[0].Type)
	require.Equal(t, provider.KindDrone, servers[1].Type)
}

func TestLoad_NumberedDefaultName(t *testing.T) {
	clearEnv(t)
	t.Setenv("CI_SERVER_10_URL", "https://ten.example.com")
	t.Setenv("CI_SERVER_10_TOKEN", "tok")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 1)
	require.Equal(t, "server-10", cfg.Servers[0].ID)
	require.Equal(t, "CI Server 10", cfg.Servers[0].Name)
}

func TestLoad_YAMLWithEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `
port: "9000"
settings:
  stats_period_days: 7
  builds_per_page: 200
  cpu_cost_per_hour: 0.12
servers:
  - id: main
    name: Woodpecker
    url: https://wp.example.com
    token: yaml-token
    type: woodpecker
`)
	t.Setenv("MOIRAI_CONFIG", path)
	t.Setenv("BUILDS_PER_PAGE", "500")
	t.Setenv("FILTER_EMPTY_REPOS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, 7, cfg.Settings.StatsPeriodDays)
	require.Equal(t, 500, cfg.Settings.BuildsPerPage)
	require.InDelta(t, 0.12, cfg.Settings.CPUCostPerHour, 1e-9)
	require.True(t, cfg.Settings.FilterEmptyRepos)
	require.Len(t, cfg.Servers, 1)
	require.Equal(t, "main", cfg.Servers[0].ID)
	require.Equal(t, "yaml-token", cfg.Servers[0].Token)
}

func TestLoad_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"period not allowed", "STATS_PERIOD_DAYS", "10"},
		{"page size too small", "BUILDS_PER_PAGE", "20"},
		{"page size too large", "BUILDS_PER_PAGE", "5000"},
		{"negative cost", "CPU_COST_PER_HOUR", "-1"},
		{"bad log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_InvalidServerURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("CI_SERVER_URL", "not a url")
	t.Setenv("CI_SERVER_TOKEN", "tok")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "server-0")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOIRAI_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CI_SERVER_URL", "https://ci.example.com")
	t.Setenv("CI_SERVER_TOKEN", "tok")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), cfg.Settings)
	require.Len(t, cfg.Servers, 1)
}

func TestLoad_UnreadableFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOIRAI_CONFIG", t.TempDir())

	_, err := Load()
	require.Error(t, err)
}

func TestMustLoad_Panics(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATS_PERIOD_DAYS", "3")

	require.Panics(t, func() { MustLoad() })
}

func TestLoad_DebugForcesDebugLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Debug)
	require.Equal(t, "debug", cfg.Logging.Level)
}
