package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server holds the HTTP service settings, read from DOUBLES_* variables.
// Timeouts are in seconds.
type Server struct {
	Port            string `env:"PORT" envDefault:"3000"`
	ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
	WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
	IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
	ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`

	// Upper bounds on what a single request may ask for.
	MaxRounds  int `env:"MAX_ROUNDS" envDefault:"100"`
	MaxPlayers int `env:"MAX_PLAYERS" envDefault:"200"`
}

const envPrefix = "DOUBLES_"

// LoadServer reads the server settings from the environment. Variables in
// envFile fill in anything the process environment leaves unset; a missing
// envFile is ignored.
func LoadServer(envFile string) (*Server, error) {
	environ, err := serverEnvironment(envFile, os.Environ())
	if err != nil {
		return nil, err
	}
	return loadServer(env.Options{Prefix: envPrefix, Environment: environ})
}

func serverEnvironment(envFile string, environ []string) (map[string]string, error) {
	vars := env.ToMap(environ)
	if envFile == "" {
		return vars, nil
	}

	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return vars, nil
		}
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}
	for k, v := range fileVars {
		if _, ok := vars[k]; !ok {
			vars[k] = v
		}
	}
	return vars, nil
}

func loadServer(opts env.Options) (*Server, error) {
	cfg := &Server{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// first error only; the rest are usually the same mistake repeated
			return nil, fmt.Errorf("loading server config: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("loading server config: %w", err)
	}
	if cfg.MaxRounds < 1 {
		return nil, fmt.Errorf("%sMAX_ROUNDS must be at least 1", envPrefix)
	}
	if cfg.MaxPlayers < 4 {
		return nil, fmt.Errorf("%sMAX_PLAYERS must be at least 4", envPrefix)
	}
	return cfg, nil
}
