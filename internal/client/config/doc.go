// Package config loads runtime configuration for the Librarium CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the catalog server
//	-f string   path to the local sqlite database
//	-r int      websocket reconnect interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://localhost:4000",
//	  "database_path": "librarium.db",
//	  "reconnect_interval": "3s"
//	}
package config
