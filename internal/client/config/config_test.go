package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	var c Config
	c.LoadDefaults()
	return &c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:3333", c.ServerBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, "Mindeducation", c.StoreNamespace)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, filepath.Join("data", "client.log"), c.LogPath())
}

func TestLogPath_Absolute(t *testing.T) {
	c := defaults()
	abs := filepath.Join(t.TempDir(), "x.log")
	c.LogFile = abs
	assert.Equal(t, abs, c.LogPath())
}

func TestLoad_NoArgs(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	if diff := cmp.Diff(defaults(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_base_url": "http://json.example:1",
		"request_timeout": "30s",
		"data_dir":        "/var/lib/mind",
	})

	cfg, err := Load([]string{"-c", path, "-a", "https://flag.example", "-l", "debug"})
	require.NoError(t, err)

	want := defaults()
	want.ServerBaseURL = "https://flag.example"
	want.RequestTimeout = 30 * time.Second
	want.DataDir = "/var/lib/mind"
	want.LogLevel = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)

	_, err = Load([]string{"-t", "abc"})
	assert.Error(t, err)
}
