// Package config loads process configuration from defaults, an optional
// YAML file, and PUTZPLAN_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// DBPath is the sqlite database file backing the state store.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// BackupCapacity bounds the in-memory audit log ring.
	BackupCapacity int `koanf:"backup_capacity"`
}

// Defaults returns the baseline configuration.
func Defaults() *Config {
	return &Config{
		DBPath:         "putzplan.db",
		LogLevel:       "info",
		LogFormat:      "text",
		BackupCapacity: 100,
	}
}

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults
//  2. file (YAML) if PUTZPLAN_CONFIG is set
//  3. env (prefix PUTZPLAN_)
func Load() (*Config, error) {
	base := Defaults()

	k := koanf.New(".")

	if path := os.Getenv("PUTZPLAN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// PUTZPLAN_DB_PATH -> db_path, PUTZPLAN_LOG_LEVEL -> log_level, ...
	envProvider := env.Provider("PUTZPLAN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "putzplan_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	if cfg.BackupCapacity < 1 {
		return nil, errors.New("backup_capacity must be positive")
	}
	return &cfg, nil
}
