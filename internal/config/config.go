// Package config loads command line defaults from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/boilerrat/grant-attestoor/canonical"
	"github.com/boilerrat/grant-attestoor/compliance"
	"github.com/boilerrat/grant-attestoor/fingerprint"
	"github.com/boilerrat/grant-attestoor/form"
)

// DefaultEnvFile is read when present and no other file is named.
const DefaultEnvFile = ".env"

type Config struct {
	LogLevel   string `env:"GRANT_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"GRANT_LOG_FORMAT" envDefault:"console"`
	HashAlg    string `env:"GRANT_HASH_ALG" envDefault:"keccak256"`
	Encoding   string `env:"GRANT_ENCODING" envDefault:"json"`
	Compliance string `env:"GRANT_COMPLIANCE" envDefault:"permissive"`
}

// Load reads envFile (or DefaultEnvFile when it exists) and then the process
// environment. Process variables win over file entries. A named envFile that
// does not exist is an error.
func Load(envFile string) (Config, error) {
	values := map[string]string{}
	path := envFile
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			path = DefaultEnvFile
		}
	}
	if path != "" {
		fileValues, err := godotenv.Read(path)
		if err != nil {
			if envFile == "" && errors.Is(err, fs.ErrNotExist) {
				fileValues = nil
			} else {
				return Config{}, fmt.Errorf("read env file %s: %w", path, err)
			}
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			values[k] = v
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg, values); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv fills target from environ.
func ParseEnv(target any, environ map[string]string) error {
	if err := env.ParseWithOptions(target, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// FormOptions converts c into session options.
func (c Config) FormOptions(logger *zap.Logger) (form.Options, error) {
	alg, err := fingerprint.ParseAlgorithm(c.HashAlg)
	if err != nil {
		return form.Options{}, fmt.Errorf("GRANT_HASH_ALG: %w", err)
	}
	enc, err := canonical.ParseEncoding(c.Encoding)
	if err != nil {
		return form.Options{}, fmt.Errorf("GRANT_ENCODING: %w", err)
	}
	mode, err := compliance.Parse(strings.ToLower(strings.TrimSpace(c.Compliance)))
	if err != nil {
		return form.Options{}, fmt.Errorf("GRANT_COMPLIANCE: %w", err)
	}
	return form.Options{Algorithm: alg, Encoding: enc, Mode: mode, Logger: logger}, nil
}
