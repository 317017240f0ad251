// Package config loads application configuration from environment variables
// and optional .env files.
//
// It wraps github.com/joho/godotenv (file loading) and github.com/caarlos0/env/v11
// (struct parsing). Each configuration struct type is parsed once per process
// and served from memory afterwards:
//
//	if err := config.LoadEnv("./deploy/.env"); err != nil {
//		return err
//	}
//
//	var cfg tenantcache.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// A failed parse is not cached, so Load can be retried after the environment
// is fixed. Reset clears the cache between tests.
//
// Errors can be matched with errors.Is: ErrParsingConfig, ErrInvalidConfigType,
// ErrConfigNotLoaded, ErrNilPointer, ErrLoadingEnvFile.
package config
