// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "FLIGHTS_CONFIG"

// Environment selects the Amadeus endpoint family.
type Environment string

const (
	// Test uses the Amadeus self-service test environment, which serves
	// cached sample data and has generous quotas.
	Test Environment = "test"
	// Production uses live Amadeus data.
	Production Environment = "production"
)

// Base URLs for the two Amadeus environments.
const (
	TestBaseURL       = "https://test.api.amadeus.com/v1"
	ProductionBaseURL = "https://api.amadeus.com/v1"
)

// Config is the application configuration.
type Config struct {
	// Environment is test or production.
	Environment Environment `yaml:"environment"`

	// Amadeus configures the upstream travel API client.
	Amadeus AmadeusConfig `yaml:"amadeus"`

	// Storage configures where the table snapshot is kept.
	Storage StorageConfig `yaml:"storage"`

	// Table configures paging and input debouncing.
	Table TableConfig `yaml:"table"`

	// Search configures the search bar.
	Search SearchConfig `yaml:"search"`

	// Per-environment overrides, applied after the base values when
	// Environment matches.
	Test       *ConfigOverrides `yaml:"test,omitempty"`
	Production *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains the fields that may differ per environment.
type ConfigOverrides struct {
	Amadeus *AmadeusConfig `yaml:"amadeus,omitempty"`
	Storage *StorageConfig `yaml:"storage,omitempty"`
}

// AmadeusConfig configures the Amadeus client.
type AmadeusConfig struct {
	// BaseURL is the API root including the version segment. Empty
	// means the URL for the configured Environment.
	BaseURL string `yaml:"base_url"`

	// ClientID is the API key. Default: ${AMADEUS_API_KEY}
	ClientID string `yaml:"client_id"`

	// ClientSecret is the API secret. Default: ${AMADEUS_API_SECRET}
	ClientSecret string `yaml:"client_secret"`

	// Timeout bounds each HTTP request. Default: 15s
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig configures the local key-value store.
type StorageConfig struct {
	// Path is the SQLite database file. ":memory:" keeps nothing
	// across runs. Default: ${FLIGHTS_DATA:-$HOME/.local/share/flight-inspirations}/table.db
	Path string `yaml:"path"`

	// SnapshotKey is the key holding the row snapshot. Default: tableData
	SnapshotKey string `yaml:"snapshot_key"`

	// ViewKey is the key holding the view state. Default: tableView
	ViewKey string `yaml:"view_key"`
}

// TableConfig configures the table presentation.
type TableConfig struct {
	// PageSize is the number of rows per page. Default: 10
	PageSize int `yaml:"page_size"`

	// EditDebounce is the quiet period after the last keystroke in a
	// cell before the edit reaches the table. Default: 300ms
	EditDebounce time.Duration `yaml:"edit_debounce"`

	// FilterDebounce is the quiet period for column filter input.
	// Default: 500ms
	FilterDebounce time.Duration `yaml:"filter_debounce"`
}

// SearchConfig configures the search bar.
type SearchConfig struct {
	// DefaultOrigin pre-fills the origin field. Default: MAD
	DefaultOrigin string `yaml:"default_origin"`

	// OneWay asks for one-way fares on every search.
	OneWay bool `yaml:"one_way"`

	// MaxPrice bounds the total fare of every search. Zero means no
	// bound.
	MaxPrice int `yaml:"max_price"`
}

// Default returns the configuration used when no file is given. Values
// still contain ${...} references; [LoadFile] and [Resolve] expand them.
func Default() *Config {
	return &Config{
		Environment: Test,
		Amadeus: AmadeusConfig{
			ClientID:     "${AMADEUS_API_KEY}",
			ClientSecret: "${AMADEUS_API_SECRET}",
			Timeout:      15 * time.Second,
		},
		Storage: StorageConfig{
			Path:        filepath.Join("${FLIGHTS_DATA:-${HOME}/.local/share/flight-inspirations}", "table.db"),
			SnapshotKey: "tableData",
			ViewKey:     "tableView",
		},
		Table: TableConfig{
			PageSize:       10,
			EditDebounce:   300 * time.Millisecond,
			FilterDebounce: 500 * time.Millisecond,
		},
		Search: SearchConfig{
			DefaultOrigin: "MAD",
		},
	}
}

// Load loads the file named by FLIGHTS_CONFIG. It fails if the variable
// is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your flights.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path on top of [Default], applies
// the matching environment section, and expands variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("config: loading %s: %w", path, err)
	}
	cfg.finish()
	return cfg, nil
}

// Resolve picks the configuration source: an explicit path first, then
// FLIGHTS_CONFIG, then the expanded defaults.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	cfg := Default()
	cfg.finish()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) finish() {
	c.applyEnvironmentOverrides()
	if c.Amadeus.BaseURL == "" {
		c.Amadeus.BaseURL = c.Environment.BaseURL()
	}
	c.expandVariables()
}

// BaseURL returns the default Amadeus API root for the environment.
func (e Environment) BaseURL() string {
	if e == Production {
		return ProductionBaseURL
	}
	return TestBaseURL
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides
	switch c.Environment {
	case Test:
		overrides = c.Test
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Amadeus != nil {
		if overrides.Amadeus.BaseURL != "" {
			c.Amadeus.BaseURL = overrides.Amadeus.BaseURL
		}
		if overrides.Amadeus.ClientID != "" {
			c.Amadeus.ClientID = overrides.Amadeus.ClientID
		}
		if overrides.Amadeus.ClientSecret != "" {
			c.Amadeus.ClientSecret = overrides.Amadeus.ClientSecret
		}
		if overrides.Amadeus.Timeout != 0 {
			c.Amadeus.Timeout = overrides.Amadeus.Timeout
		}
	}

	if overrides.Storage != nil {
		if overrides.Storage.Path != "" {
			c.Storage.Path = overrides.Storage.Path
		}
		if overrides.Storage.SnapshotKey != "" {
			c.Storage.SnapshotKey = overrides.Storage.SnapshotKey
		}
		if overrides.Storage.ViewKey != "" {
			c.Storage.ViewKey = overrides.Storage.ViewKey
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in credentials and
// paths. Nested references in a default are expanded innermost first.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Amadeus.BaseURL = expandVars(c.Amadeus.BaseURL, vars)
	c.Amadeus.ClientID = expandVars(c.Amadeus.ClientID, vars)
	c.Amadeus.ClientSecret = expandVars(c.Amadeus.ClientSecret, vars)
	c.Storage.Path = expandVars(c.Storage.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:$]+)(?::-([^}$]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	// Each pass replaces the innermost references; a default that is
	// itself a reference resolves on the following pass.
	for range 4 {
		expanded := varPattern.ReplaceAllStringFunc(s, func(match string) string {
			parts := varPattern.FindStringSubmatch(match)
			name := parts[1]
			defaultValue := parts[2]

			if value, ok := vars[name]; ok && value != "" {
				return value
			}
			if value := os.Getenv(name); value != "" {
				return value
			}
			return defaultValue
		})
		if expanded == s {
			break
		}
		s = expanded
	}
	return s
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Test && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %q (want test or production)", c.Environment))
	}

	if parsed, err := url.Parse(c.Amadeus.BaseURL); err != nil || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("amadeus.base_url %q is not an absolute URL", c.Amadeus.BaseURL))
	} else if parsed.Scheme != "https" {
		errs = append(errs, fmt.Errorf("amadeus.base_url must use https, got %q", parsed.Scheme))
	}
	if c.Amadeus.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("amadeus.timeout must be positive"))
	}

	if c.Storage.Path == "" {
		errs = append(errs, fmt.Errorf("storage.path is required"))
	}
	if c.Storage.SnapshotKey == "" {
		errs = append(errs, fmt.Errorf("storage.snapshot_key is required"))
	}
	if c.Storage.ViewKey == "" {
		errs = append(errs, fmt.Errorf("storage.view_key is required"))
	}
	if c.Storage.SnapshotKey != "" && c.Storage.SnapshotKey == c.Storage.ViewKey {
		errs = append(errs, fmt.Errorf("storage.snapshot_key and storage.view_key must differ"))
	}

	if c.Table.PageSize < 1 {
		errs = append(errs, fmt.Errorf("table.page_size must be at least 1"))
	}
	if c.Table.EditDebounce < 0 {
		errs = append(errs, fmt.Errorf("table.edit_debounce must not be negative"))
	}
	if c.Table.FilterDebounce < 0 {
		errs = append(errs, fmt.Errorf("table.filter_debounce must not be negative"))
	}

	if c.Search.DefaultOrigin != "" && !isIATACode(c.Search.DefaultOrigin) {
		errs = append(errs, fmt.Errorf("search.default_origin %q is not a three-letter IATA code", c.Search.DefaultOrigin))
	}
	if c.Search.MaxPrice < 0 {
		errs = append(errs, fmt.Errorf("search.max_price must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// RequireCredentials reports an error when either Amadeus credential is
// empty after expansion. Offline sessions skip this check.
func (c *Config) RequireCredentials() error {
	var errs []error
	if c.Amadeus.ClientID == "" {
		errs = append(errs, fmt.Errorf("amadeus.client_id is empty (set AMADEUS_API_KEY or the config field)"))
	}
	if c.Amadeus.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("amadeus.client_secret is empty (set AMADEUS_API_SECRET or the config field)"))
	}
	return errors.Join(errs...)
}

// EnsureStorageDir creates the parent directory of the storage path.
func (c *Config) EnsureStorageDir() error {
	if c.Storage.Path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(c.Storage.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

func isIATACode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, letter := range code {
		if (letter < 'A' || letter > 'Z') && (letter < 'a' || letter > 'z') {
			return false
		}
	}
	return true
}
