package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Arguments that belong to other loaders (such as -c) are filtered out first.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the contact-book API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(flagx.FilterArgs(args, flagx.Names(fs))); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
