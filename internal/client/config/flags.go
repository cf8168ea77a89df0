package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/librarium/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the catalog server (default from Config)
//	-f string   path to the local sqlite database (default from Config)
//	-r int      websocket reconnect interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the catalog server")
	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "path to the local sqlite database")
	reconnectInterval := fs.Int("r", int(cfg.ReconnectInterval.Seconds()), "websocket reconnect interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ReconnectInterval = time.Duration(*reconnectInterval) * time.Second
}
