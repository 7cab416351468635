// Package config provides configuration loading for snapsort.
//
// Configuration precedence (highest to lowest):
//  1. Command-line flags (applied by the command layer)
//  2. Environment variables (SNAPSORT_THRESHOLD_SECONDS, ...)
//  3. YAML config file (~/.config/snapsort/config.yaml)
//  4. Hardcoded defaults
package config

import (
	"fmt"
	"strings"
)

// Default values applied when neither file, environment, nor flags set them.
const (
	// DefaultThresholdSeconds is the maximum gap between two adjacent
	// photos for them to share a cluster.
	DefaultThresholdSeconds = 3

	// DefaultConcurrency is the extraction worker count.
	DefaultConcurrency = 4
)

// DefaultExtensions are the file extensions scanned when none are configured.
var DefaultExtensions = []string{".jpg", ".jpeg"}

// Config holds the complete snapsort configuration.
type Config struct {
	// Path is the directory to scan. Set from the command line, never from
	// file or environment.
	Path string `koanf:"-"`

	// ThresholdSeconds is the inclusive clustering gap in seconds.
	ThresholdSeconds int64 `koanf:"threshold_seconds"`

	// Concurrency is the extraction worker pool size.
	Concurrency int `koanf:"concurrency"`

	// Extensions are the accepted file extensions, each with a leading dot.
	// Matching is case-insensitive.
	Extensions []string `koanf:"extensions"`

	// Export is the report output path. Empty means result.txt inside the
	// scanned directory.
	Export string `koanf:"export"`

	// Package enables per-cluster zip archives.
	Package bool `koanf:"package"`

	// Watch keeps the process alive and re-runs on directory changes.
	Watch bool `koanf:"watch"`

	// LogFormat selects the log encoder: "console" or "json".
	LogFormat string `koanf:"log_format"`

	// Verbosity is the -v count. Set from the command line only.
	Verbosity int `koanf:"-"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("scan path is required")
	}
	if c.ThresholdSeconds < 0 {
		return fmt.Errorf("threshold cannot be negative: %d", c.ThresholdSeconds)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one extension is required")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q (expected console or json)", c.LogFormat)
	}
	return nil
}

