package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/nonexistent/path.yaml")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.strem.io", cfg.API.URL)
	assert.Equal(t, CurrentSchemaVersion, cfg.Schema.Version)
	assert.Equal(t, "memory", cfg.Bus.Transport)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/nonexistent/path.yaml")
	t.Setenv("CATALOGCORE_API_URL", "https://example.test")
	t.Setenv("CATALOGCORE_BUS_TRANSPORT", "nats")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", cfg.API.URL)
	assert.Equal(t, "nats", cfg.Bus.Transport)
}

func TestValidateRejectsBadTransport(t *testing.T) {
	cfg := defaultConfig()
	cfg.Bus.Transport = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyAPIURL(t *testing.T) {
	cfg := defaultConfig()
	cfg.API.URL = ""
	assert.Error(t, cfg.Validate())
}
