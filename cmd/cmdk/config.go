package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"cmdk/tui"
)

// Config holds the user's settings
type Config struct {
	DB            string        `yaml:"db"`
	Timeout       time.Duration `yaml:"timeout"`
	Insecure      bool          `yaml:"insecure"`
	MaxChainDepth int           `yaml:"max_chain_depth"`
	QueryDebounce time.Duration `yaml:"query_debounce"`
	LogFile       string        `yaml:"log_file"`
}

func defaultConfig(dir string) Config {
	return Config{
		DB:            filepath.Join(dir, "db.json"),
		Timeout:       30 * time.Second,
		MaxChainDepth: tui.DefaultMaxChainDepth,
		QueryDebounce: 250 * time.Millisecond,
	}
}

// configDir is where cmdk keeps its config and database
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "cmdk"), nil
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path, dir string) (Config, error) {
	cfg := defaultConfig(dir)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Timeout < 0 {
		return cfg, fmt.Errorf("config %s: timeout must not be negative", path)
	}
	if cfg.QueryDebounce < 0 {
		return cfg, fmt.Errorf("config %s: query_debounce must not be negative", path)
	}
	if cfg.MaxChainDepth <= 0 {
		cfg.MaxChainDepth = tui.DefaultMaxChainDepth
	}
	return cfg, nil
}

// applyEnv overrides settings from CMDK_* environment variables
func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("CMDK_DB"); v != "" {
		cfg.DB = v
	}
	if v := getenv("CMDK_LOG"); v != "" {
		cfg.LogFile = v
	}
	if v := getenv("CMDK_INSECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CMDK_INSECURE: %w", err)
		}
		cfg.Insecure = b
	}
	return nil
}
