package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// envPrefix namespaces snapsort environment variables.
	envPrefix = "SNAPSORT_"

	// maxConfigFileSize caps how much of a config file is read.
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// DefaultPath returns the default config file location,
// ~/.config/snapsort/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "snapsort", "config.yaml"), nil
}

// Load loads configuration from the YAML file at configPath, then overrides
// with SNAPSORT_* environment variables, then applies defaults. A missing
// file is not an error; defaults and environment still apply.
//
// Environment variables map to config keys by stripping the prefix and
// lowercasing: SNAPSORT_THRESHOLD_SECONDS -> threshold_seconds.
//
// If configPath is empty, DefaultPath is used.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		var err error
		configPath, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(k, &cfg)
	return &cfg, nil
}

// applyDefaults sets default values for keys neither file nor environment
// provided. Presence is checked against the loaded keys, not the zero value:
// an explicit threshold_seconds of 0 is a valid setting (every gap splits)
// and must survive loading.
func applyDefaults(k *koanf.Koanf, cfg *Config) {
	if !k.Exists("threshold_seconds") {
		cfg.ThresholdSeconds = DefaultThresholdSeconds
	}
	if !k.Exists("concurrency") {
		cfg.Concurrency = DefaultConcurrency
	}
	if !k.Exists("extensions") {
		cfg.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if !k.Exists("log_format") {
		cfg.LogFormat = "console"
	}
}

// readConfigFile opens and reads the config file, enforcing the size cap
// against the already-open descriptor to avoid a stat/read race.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}
