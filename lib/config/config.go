// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the configuration file for Load.
const EnvironmentVariable = "BLOCKARCHIVE_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local runs against archives on disk.
	Development Environment = "development"
	// Staging is for pre-production upload targets.
	Staging Environment = "staging"
	// Production is for production upload targets.
	Production Environment = "production"
)

// Compression names an archive compression for the directory store.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// Config is the master configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// Walk configures which files in an archive directory are
	// processed.
	Walk WalkConfig `yaml:"walk"`

	// Upload configures where verified archives are stored.
	Upload UploadConfig `yaml:"upload"`

	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides contains the sections that can be overridden per
// environment.
type Overrides struct {
	Walk   *WalkConfig   `yaml:"walk,omitempty"`
	Upload *UploadConfig `yaml:"upload,omitempty"`
}

// WalkConfig bounds the archive seqnos accepted by directory walks.
type WalkConfig struct {
	// MinSeqno is the smallest archive seqno processed.
	MinSeqno uint64 `yaml:"min_seqno"`

	// MaxSeqno is the largest archive seqno processed. Zero means no
	// upper bound.
	MaxSeqno uint64 `yaml:"max_seqno"`
}

// UploadConfig configures the archive store.
type UploadConfig struct {
	// Destination is a file:// directory or an http(s):// endpoint.
	Destination string `yaml:"destination"`

	// Bucket is the first path component under an HTTP endpoint.
	// Default: archives
	Bucket string `yaml:"bucket"`

	// KeyPrefix is prepended to every object key.
	KeyPrefix string `yaml:"key_prefix"`

	// Jobs is the number of archives processed concurrently.
	// Default: 4
	Jobs int `yaml:"jobs"`

	// RetryInterval is the first delay between upload attempts.
	// Default: 100ms
	RetryInterval time.Duration `yaml:"retry_interval"`

	// MaxElapsed bounds the total time spent retrying one archive.
	// Zero retries forever.
	// Default: 5m
	MaxElapsed time.Duration `yaml:"max_elapsed"`

	// Compression applies to the directory store only.
	// Default: none
	Compression Compression `yaml:"compression"`

	// TokenEnv names the environment variable holding the bearer
	// token sent to HTTP endpoints. The token itself never appears
	// in the file.
	// Default: BLOCKARCHIVE_UPLOAD_TOKEN
	TokenEnv string `yaml:"token_env"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Environment: Development,
		Upload: UploadConfig{
			Bucket:        "archives",
			Jobs:          4,
			RetryInterval: 100 * time.Millisecond,
			MaxElapsed:    5 * time.Minute,
			Compression:   CompressionNone,
			TokenEnv:      "BLOCKARCHIVE_UPLOAD_TOKEN",
		},
	}
}

// Load loads configuration from the file named by BLOCKARCHIVE_CONFIG,
// or returns the defaults when the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path on top of
// the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.Upload.Destination = expandVars(cfg.Upload.Destination)

	return cfg, nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if walk := overrides.Walk; walk != nil {
		if walk.MinSeqno != 0 {
			c.Walk.MinSeqno = walk.MinSeqno
		}
		if walk.MaxSeqno != 0 {
			c.Walk.MaxSeqno = walk.MaxSeqno
		}
	}

	if upload := overrides.Upload; upload != nil {
		if upload.Destination != "" {
			c.Upload.Destination = upload.Destination
		}
		if upload.Bucket != "" {
			c.Upload.Bucket = upload.Bucket
		}
		if upload.KeyPrefix != "" {
			c.Upload.KeyPrefix = upload.KeyPrefix
		}
		if upload.Jobs != 0 {
			c.Upload.Jobs = upload.Jobs
		}
		if upload.RetryInterval != 0 {
			c.Upload.RetryInterval = upload.RetryInterval
		}
		if upload.MaxElapsed != 0 {
			c.Upload.MaxElapsed = upload.MaxElapsed
		}
		if upload.Compression != "" {
			c.Upload.Compression = upload.Compression
		}
		if upload.TokenEnv != "" {
			c.Upload.TokenEnv = upload.TokenEnv
		}
	}
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]Environment{Development, Staging, Production}, c.Environment) {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Walk.MaxSeqno != 0 && c.Walk.MaxSeqno < c.Walk.MinSeqno {
		errs = append(errs, fmt.Errorf("walk.max_seqno %d is below walk.min_seqno %d", c.Walk.MaxSeqno, c.Walk.MinSeqno))
	}

	if c.Upload.Destination != "" {
		if err := validateDestination(c.Upload.Destination); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Upload.Jobs < 1 {
		errs = append(errs, fmt.Errorf("upload.jobs must be at least 1, got %d", c.Upload.Jobs))
	}
	if c.Upload.RetryInterval <= 0 {
		errs = append(errs, fmt.Errorf("upload.retry_interval must be positive"))
	}
	if c.Upload.MaxElapsed < 0 {
		errs = append(errs, fmt.Errorf("upload.max_elapsed must not be negative"))
	}
	compressions := []Compression{CompressionNone, CompressionZstd, CompressionLZ4}
	if !slices.Contains(compressions, c.Upload.Compression) {
		errs = append(errs, fmt.Errorf("upload.compression must be one of: %v", compressions))
	}

	return errors.Join(errs...)
}

func validateDestination(destination string) error {
	parsed, err := url.Parse(destination)
	if err != nil {
		return fmt.Errorf("upload.destination: %w", err)
	}
	switch parsed.Scheme {
	case "file":
		if parsed.Path == "" {
			return fmt.Errorf("upload.destination %q has no directory", destination)
		}
	case "http", "https":
		if parsed.Host == "" {
			return fmt.Errorf("upload.destination %q has no host", destination)
		}
	default:
		return fmt.Errorf("upload.destination scheme %q is not file, http or https", parsed.Scheme)
	}
	return nil
}
