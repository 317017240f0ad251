package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// registry keeps one parsed copy per configuration type.
type registry struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
	onces  map[reflect.Type]*sync.Once
}

var (
	loaded = &registry{
		values: make(map[reflect.Type]any),
		onces:  make(map[reflect.Type]*sync.Once),
	}

	defaultEnvLoaded sync.Once
)

// LoadEnv reads the given .env files into the process environment.
// Variables already set are not overridden. With no paths it reads ./.env.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv is LoadEnv that panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(err)
	}
}

// Load parses environment variables into v using `env` and `envDefault` tags.
//
// Each configuration type is parsed once per process; later calls copy the
// cached value into v. The default .env file is read before the first parse
// if present.
//
//	var cfg tenantcache.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	typ := reflect.TypeOf(v).Elem()
	if typ.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s", ErrInvalidConfigType, typ)
	}

	defaultEnvLoaded.Do(func() {
		// .env is optional
		_ = godotenv.Load()
	})

	if loaded.copyInto(typ, v) {
		return nil
	}

	loaded.mu.Lock()
	once, ok := loaded.onces[typ]
	if !ok {
		once = new(sync.Once)
		loaded.onces[typ] = once
	}
	loaded.mu.Unlock()

	var parseErr error
	once.Do(func() {
		var fresh T
		if err := env.Parse(&fresh); err != nil {
			parseErr = errors.Join(ErrParsingConfig, err)
			// allow a retry once the environment is fixed
			loaded.mu.Lock()
			delete(loaded.onces, typ)
			loaded.mu.Unlock()
			return
		}
		loaded.mu.Lock()
		loaded.values[typ] = fresh
		loaded.mu.Unlock()
	})
	if parseErr != nil {
		return parseErr
	}

	if loaded.copyInto(typ, v) {
		return nil
	}
	return ErrConfigNotLoaded
}

// MustLoad works like Load but panics if loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reset drops every cached configuration. Intended for tests.
func Reset() {
	loaded.mu.Lock()
	defer loaded.mu.Unlock()
	loaded.values = make(map[reflect.Type]any)
	loaded.onces = make(map[reflect.Type]*sync.Once)
}

func (r *registry) copyInto(typ reflect.Type, dst any) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cached, ok := r.values[typ]
	if !ok {
		return false
	}
	reflect.ValueOf(dst).Elem().Set(reflect.ValueOf(cached))
	return true
}
