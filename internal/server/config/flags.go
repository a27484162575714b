package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g., ":8000")
//	-d string              PostgreSQL DSN, or "memory"
//	-s string              JWT HMAC secret key
//	-t int                 access token validity, minutes
//	-r int                 refresh token validity, minutes
//	-u string              S3 root user
//	-p string              S3 root password
//	-b string              S3 bucket name
//	-g string              S3 region
//	-e string              S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-base-url string       public API URL used in confirmation links
//	-smtp-host string      SMTP server host
//	-smtp-port int         SMTP server port
//	-log-level string      debug, info, warn or error
//
// Arguments that do not belong to these flags are ignored, so -c/-config and
// flags of other components can share the command line.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.BaseURL, "base-url", config.BaseURL, "public base URL")
	fs.StringVar(&config.SMTPHost, "smtp-host", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "smtp-port", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, flagx.Names(fs))); err != nil {
		panic(err)
	}

	// minute-granular flags must not truncate finer values from JSON or env
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
		}
	})
}
