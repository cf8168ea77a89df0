package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/librarium/internal/flagx"
	"github.com/dmitrijs2005/librarium/internal/timex"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// Durations accept both "24h" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	InMemory                    *bool          `json:"in_memory"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	DefaultUserPassword         string         `json:"default_user_password"`
}

// parseJson loads configuration values from the JSON file given via the
// -c/-config flags into the provided Config. Absent flags mean no file is
// loaded; an unreadable or invalid file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.InMemory != nil {
		config.InMemory = *c.InMemory
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.DefaultUserPassword != "" {
		config.DefaultUserPassword = c.DefaultUserPassword
	}
}
