// Package config loads typed configuration from environment variables.
//
// A .env file in the working directory is applied once, best effort, before
// the first load. Each configuration type is parsed once per process and
// cached, so independent callers asking for the same type see one value:
//
//	type App struct {
//	    APIBaseURL string `env:"INKLET_API_URL" envDefault:"http://localhost:5000"`
//	}
//
//	var cfg App
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilConfig is returned when Load is called with a nil pointer.
	ErrNilConfig = errors.New("config target must not be nil")
	// ErrParse is returned when environment variables cannot be parsed into the target.
	ErrParse = errors.New("failed to parse environment configuration")
)

var (
	mu      sync.Mutex
	cache   = make(map[string]any)
	envOnce sync.Once
)

// Load parses environment variables into cfg, returning a cached value if
// this type was loaded before.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	envOnce.Do(func() {
		// Missing .env is the normal case outside development.
		_ = godotenv.Load()
	})

	key := fmt.Sprintf("%T", *cfg)

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[key]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParse, err)
	}

	cache[key] = *cfg
	return nil
}

// MustLoad is Load for startup paths where a broken environment is fatal.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
