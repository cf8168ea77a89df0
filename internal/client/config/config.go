package config

import "time"

// Config holds runtime settings for the Librarium CLI.
//
// Fields:
//   - ServerURL: base URL of the catalog server; the client derives the
//     /graphql endpoint and the websocket URL from it.
//   - DatabasePath: location of the local sqlite file holding session
//     metadata.
//   - ReconnectInterval: how long the live-update watcher waits before
//     redialing a dropped websocket.
type Config struct {
	ServerURL         string
	DatabasePath      string
	ReconnectInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:4000"
	c.DatabasePath = "librarium.db"
	c.ReconnectInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
