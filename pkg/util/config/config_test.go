package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigAndGet(t *testing.T) {
	in := strings.NewReader(`{"broker": {"type": "inmemory", "buffer": 16}}`)
	require.NoError(t, ReadConfig(in))

	assert.Equal(t, "inmemory", Get("broker.type"))
	assert.Equal(t, "inmemory", GetString("broker.type"))
	assert.Nil(t, Get("broker.missing"))
	assert.Equal(t, "", GetString("broker.buffer"), "non-string values yield empty string")
}

func TestUnmarshalWithEnvOverlay(t *testing.T) {
	in := strings.NewReader(`{"broker": {"uri": "file-uri", "user": "file-user"}}`)
	require.NoError(t, ReadConfig(in))

	type brokerConfig struct {
		URI  string `mapstructure:"uri" env:"TEST_BROKER_URI"`
		User string `mapstructure:"user" env:"TEST_BROKER_USER"`
	}

	os.Setenv("TEST_BROKER_URI", "env-uri")
	defer os.Unsetenv("TEST_BROKER_URI")

	var c brokerConfig
	require.NoError(t, Unmarshal("broker", &c))
	assert.Equal(t, "env-uri", c.URI, "env overrides the file value")
	assert.Equal(t, "file-user", c.User)
}
