package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Storage.Root)
	assert.Equal(t, DefaultIndexFile, cfg.Storage.IndexFile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Packages)

	require.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	content := `storage:
  root: /data/storage
  index_file: .custom-db.json
packages:
  - pattern: "@corp/*"
    storage: corp
logging:
  level: debug
  format: text
`
	path := writeConfig(t, content)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/data/storage", cfg.Storage.Root)
	assert.Equal(t, ".custom-db.json", cfg.Storage.IndexFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Packages, 1)
	assert.Equal(t, "@corp/*", cfg.Packages[0].Pattern)
	assert.Equal(t, "corp", cfg.Packages[0].Storage)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	assert.Error(t, err)
}

func TestIndexPath_ResolvesAgainstConfigDir(t *testing.T) {
	path := writeConfig(t, "storage:\n  root: ./storage\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(path), cfg.Directory())
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultIndexFile), cfg.IndexPath())
}

func TestDirectory_NoConfigFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Directory())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad storage root scheme",
			mutate:  func(c *Config) { c.Storage.Root = "ftp://host/path" },
			wantErr: "unsupported storage scheme",
		},
		{
			name:    "empty index file",
			mutate:  func(c *Config) { c.Storage.IndexFile = "" },
			wantErr: "index_file cannot be empty",
		},
		{
			name:    "index file with path separator",
			mutate:  func(c *Config) { c.Storage.IndexFile = "sub/db.json" },
			wantErr: "bare filename",
		},
		{
			name:    "empty rule pattern",
			mutate:  func(c *Config) { c.Packages = []PackageRule{{Pattern: ""}} },
			wantErr: "pattern cannot be empty",
		},
		{
			name:    "bad logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMatchedPackagesSpec(t *testing.T) {
	cfg := &Config{
		Packages: []PackageRule{
			{Pattern: "left-pad", Storage: "exact"},
			{Pattern: "@corp/*", Storage: "corp"},
			{Pattern: "**", Storage: "catchall"},
		},
	}

	tests := []struct {
		name        string
		pkg         string
		wantStorage string
	}{
		{"exact match wins", "left-pad", "exact"},
		{"scope glob", "@corp/tools", "corp"},
		{"catchall", "anything-else", "catchall"},
		{"catchall covers scoped names", "@other/pkg", "catchall"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := cfg.MatchedPackagesSpec(tt.pkg)
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantStorage, rule.Storage)
		})
	}
}

func TestMatchedPackagesSpec_NoMatch(t *testing.T) {
	cfg := &Config{
		Packages: []PackageRule{
			{Pattern: "@corp/*", Storage: "corp"},
		},
	}

	assert.Nil(t, cfg.MatchedPackagesSpec("unscoped"))
	assert.Nil(t, cfg.MatchedPackagesSpec("@other/pkg"))
}

func TestMatchedPackagesSpec_FirstMatchWins(t *testing.T) {
	cfg := &Config{
		Packages: []PackageRule{
			{Pattern: "@corp/*", Storage: "first"},
			{Pattern: "@corp/tools", Storage: "second"},
		},
	}

	rule := cfg.MatchedPackagesSpec("@corp/tools")
	require.NotNil(t, rule)
	assert.Equal(t, "first", rule.Storage)
}

func TestMaskToken(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "", cfg.MaskToken())

	cfg.Storage.Token = "my-secret-token"
	assert.Equal(t, "***", cfg.MaskToken())
}
