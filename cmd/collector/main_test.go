package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/netcollector/internal/domain"
)

// execute runs the root command with args and returns captured stdout and
// stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		// persistent flag values survive between Execute calls
		_ = rootCmd.PersistentFlags().Set("config", "")
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "collector dev")
}

func TestValidate_ValidConfig(t *testing.T) {
	path := writeConfig(t, "collector.yaml", `
api_base: http://10.0.0.5/network
status_addr: ":9090"
max_concurrent_probes: 25
`)
	out, _, err := execute(t, "validate", "-c", path)
	require.NoError(t, err)

	for _, phrase := range []string{
		"http://10.0.0.5/network/devices.json",
		"http://localhost/network/server.php",
		"max=25",
		"status API  :9090",
		"config is valid",
	} {
		assert.Contains(t, out, phrase)
	}
}

func TestValidate_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "collector.toml", `
api_base = "ftp://nope"
snmp_version = "3"
`)
	_, errOut, err := execute(t, "validate", "-c", path)
	require.Error(t, err)
	assert.Contains(t, errOut, "api_base must be an http(s) URL")
	assert.Contains(t, errOut, `unsupported snmp_version "3"`)
}

func TestValidate_UnreadableConfig(t *testing.T) {
	_, _, err := execute(t, "validate", "-c", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid config"))
}

func TestStatus_PrintsLatestSweep(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sweeps/latest", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.Sweep{
			ID: "abc", StartedAt: start, FinishedAt: start.Add(2 * time.Second),
			Devices: 3, Results: 2, ReportError: "collector returned 500",
		})
	}))
	defer srv.Close()

	out, _, err := execute(t, "status", "--addr", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "sweep    abc")
	assert.Contains(t, out, "3 probed, 2 results")
	assert.Contains(t, out, "reported no (collector returned 500)")
}

func TestStatus_NoSweepYet(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	out, _, err := execute(t, "status", "--addr", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "no sweep has completed yet")
}

func TestRoster_FallsBackToCache(t *testing.T) {
	dir := t.TempDir()
	cache := filepath.Join(dir, "devices.json")
	require.NoError(t, os.WriteFile(cache, []byte(`[{"ip":"10.0.0.7"}]`), 0o644))

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer api.Close()

	t.Setenv("API_BASE", api.URL)
	t.Setenv("CACHE_PATH", cache)
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("LOG_LEVEL", "error")

	out, _, err := execute(t, "roster")
	require.NoError(t, err)

	var devices []domain.Device
	require.NoError(t, json.Unmarshal([]byte(out), &devices))
	assert.Equal(t, []domain.Device{{IP: "10.0.0.7"}}, devices)
}

func TestSweep_EmptyRosterPrintsEmptyArray(t *testing.T) {
	dir := t.TempDir()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer api.Close()

	t.Setenv("API_BASE", api.URL)
	t.Setenv("CACHE_PATH", filepath.Join(dir, "missing.json"))
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("LOG_LEVEL", "error")

	out, _, err := execute(t, "sweep")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}
