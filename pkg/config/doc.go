// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - Load parses the environment into any struct annotated with `env` tags.
//     The default .env file is read once, and each struct type is parsed once
//     and cached for the lifetime of the process.
//   - LoadPrefixed parses the same struct type under a variable prefix without
//     caching, which is handy for multi-site setups.
//   - LoadEnv reads one or more .env files into the process environment.
//   - MustLoad and MustLoadEnv panic on failure for configuration that is
//     required at startup.
//
// # Usage
//
//	type Config struct {
//		CookieName string `env:"CONSENT_COOKIE_NAME" envDefault:"cm-user-preferences"`
//		ExpiryDays int    `env:"CONSENT_COOKIE_EXPIRY_DAYS" envDefault:"365"`
//	}
//
//	if err := config.LoadEnv("./deploy/.env"); err != nil {
//		log.Fatal(err)
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Nested structs are parsed recursively, so an application can aggregate the
// Config types of several packages into one struct and load it at once.
//
// # Errors
//
//   - ErrParsingConfig: the environment could not be parsed into the struct.
//   - ErrLoadingEnvFile: a .env file could not be read.
//   - ErrNilPointer: a nil pointer was passed to a loader.
//
// Failed loads are not cached.
//
// # Testing
//
// ResetCache clears every cached type; ForceReloadConfig re-parses a single
// type after the environment changed.
package config
