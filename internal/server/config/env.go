package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotenvFiles are loaded, when present, before the environment is read.
// Variables already set in the process environment win over the files.
var dotenvFiles = []string{".env"}

// parseEnv overlays config with CONTACTBOOK_* environment variables.
// Unset variables leave the corresponding field untouched. Malformed values
// (e.g. a duration that does not parse) panic, like a broken JSON file does.
func parseEnv(config *Config) {
	for _, f := range dotenvFiles {
		_ = godotenv.Load(f)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
