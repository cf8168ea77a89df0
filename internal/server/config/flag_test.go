package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"test", "-a", ":5000", "-m", "-t", "15", "-s", "hush"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":5000", c.EndpointAddr)
	assert.True(t, c.InMemory)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "hush", c.SecretKey)
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"test", "-z", "unknown", "-a", ":5000"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, ":5000", c.EndpointAddr)
}
