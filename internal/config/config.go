package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/nimbler/registry-index/internal/storage"
)

// DefaultIndexFile is the filename of the private package index, relative to
// the configuration directory
const DefaultIndexFile = ".registry-db.json"

// Config holds all configuration for the registry index
type Config struct {
	Storage  StorageConfig `mapstructure:"storage"`
	Packages []PackageRule `mapstructure:"packages"`
	Logging  LoggingConfig `mapstructure:"logging"`

	// configPath is the path of the loaded configuration file; the index
	// file and relative storage roots resolve against its directory
	configPath string
}

// StorageConfig holds package storage configuration
type StorageConfig struct {
	Root      string `mapstructure:"root"`       // Global storage root (path or URI, e.g. s3://endpoint/bucket)
	Token     string `mapstructure:"token"`      // Opaque token for storage authentication
	IndexFile string `mapstructure:"index_file"` // Index filename within the config directory
}

// PackageRule maps a package name pattern to per-package settings. Rules are
// evaluated in order; the first matching rule wins.
type PackageRule struct {
	Pattern string `mapstructure:"pattern"`
	Storage string `mapstructure:"storage"` // Storage subdirectory under the global root
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // json | text
}

// NewViper creates a new viper instance with defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()

	// Set defaults
	v.SetDefault("storage.root", "")
	v.SetDefault("storage.token", "")
	v.SetDefault("storage.index_file", DefaultIndexFile)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Bind environment variables with REGIDX_ prefix
	v.SetEnvPrefix("REGIDX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads configuration from the given file, environment variables and
// defaults. An empty configFile loads defaults and environment only.
func Load(configFile string) (*Config, error) {
	v := NewViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.configPath = configFile

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Storage root is optional at load time; resolution fails fast when a
	// package storage handle is requested without one
	if c.Storage.Root != "" {
		if _, err := storage.ParseStorageURI(c.Storage.Root); err != nil {
			return fmt.Errorf("invalid storage root: %w", err)
		}
	}

	if c.Storage.IndexFile == "" {
		return fmt.Errorf("storage.index_file cannot be empty")
	}
	if strings.ContainsAny(c.Storage.IndexFile, `/\`) {
		return fmt.Errorf("storage.index_file must be a bare filename")
	}

	for i, rule := range c.Packages {
		if rule.Pattern == "" {
			return fmt.Errorf("packages[%d].pattern cannot be empty", i)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be debug, info, warn, or error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be json or text")
	}

	return nil
}

// ConfigPath returns the path of the loaded configuration file
func (c *Config) ConfigPath() string {
	return c.configPath
}

// Directory returns the configuration directory, against which the index file
// and relative storage roots are resolved
func (c *Config) Directory() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// IndexPath returns the absolute path of the index file
func (c *Config) IndexPath() string {
	return filepath.Join(c.Directory(), c.Storage.IndexFile)
}

// MatchedPackagesSpec returns the first package rule matching name, or nil
// when no rule matches
func (c *Config) MatchedPackagesSpec(name string) *PackageRule {
	for i := range c.Packages {
		if matchPattern(c.Packages[i].Pattern, name) {
			return &c.Packages[i]
		}
	}
	return nil
}

// matchPattern matches a package name against an npm-style pattern. "*" and
// "**" match everything; otherwise path.Match semantics apply, so a "*"
// segment does not cross the scope separator in "@scope/name".
func matchPattern(pattern, name string) bool {
	if pattern == name || pattern == "*" || pattern == "**" {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// MaskToken returns a masked version of the storage token for logging
func (c *Config) MaskToken() string {
	if c.Storage.Token == "" {
		return ""
	}
	return "***"
}
