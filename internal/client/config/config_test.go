package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:4000", c.ServerURL)
	assert.Equal(t, "librarium.db", c.DatabasePath)
	assert.Equal(t, 3*time.Second, c.ReconnectInterval)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:4000", cfg.ServerURL)
	assert.Equal(t, 3*time.Second, cfg.ReconnectInterval)
}
