package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/homier/probemap/internal/logutil"
)

// Environment variables overriding the config file.
const (
	EnvDictionary = "SPELLCHECK_DICTIONARY"
	EnvCapacity   = "SPELLCHECK_CAPACITY"
	EnvWorkers    = "SPELLCHECK_WORKERS"
	EnvLogLevel   = "SPELLCHECK_LOG_LEVEL"
	EnvLogFormat  = "SPELLCHECK_LOG_FORMAT"
	EnvLogFile    = "SPELLCHECK_LOG_FILE"
)

type Config struct {
	Dictionary string            `toml:"dictionary"`
	Capacity   int               `toml:"capacity"`
	Workers    int               `toml:"workers"`
	Log        logutil.LogConfig `toml:"log"`
}

func Default() Config {
	return Config{
		Dictionary: "dictionary.txt",
		Capacity:   120000,
		Workers:    1,
		Log: logutil.LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path if
// one is given, then environment variables. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, errors.Wrap(err, "load .env")
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "decode config %s", path)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (cfg *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDictionary); v != "" {
		cfg.Dictionary = v
	}

	if v := os.Getenv(EnvCapacity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvCapacity)
		}

		cfg.Capacity = n
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvWorkers)
		}

		cfg.Workers = n
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Log.Filename = v
	}

	return nil
}

func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Dictionary) == "" {
		return errors.New("dictionary path is required")
	}

	if cfg.Capacity < 0 {
		return errors.Errorf("capacity must not be negative, got %d", cfg.Capacity)
	}

	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	return cfg.Log.Validate()
}
