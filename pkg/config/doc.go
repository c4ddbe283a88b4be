// Package config loads typed configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - Load parses the environment into any struct annotated with `env` tags
//     and caches the result per type, so each type is parsed once.
//   - ForceReload and ResetCache drop cached copies, mostly for tests.
//   - LoadEnv loads .env files into the process environment.
//   - ReadEnvFiles parses .env files into a map without touching the process
//     environment. The ambient package uses it to build ENV source maps.
//
// # Usage
//
//	var cfg ambient.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// Sentinel errors can be compared with errors.Is: ErrParsingConfig,
// ErrConfigNotLoaded, ErrNilPointer and ErrLoadingEnvFile.
//
// A failed Load is not cached, so fixing the environment and calling Load
// again succeeds.
package config
