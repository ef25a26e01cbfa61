package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at fresh temp dirs so no
// real config file leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(originalWd) })

	return tmpDir
}

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, Default().Server, c.Server)
			},
		},
		{
			name:   "port out of range defaults to 4000",
			modify: func(c *Config) { c.Server.Port = 70000 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultPort, c.Server.Port)
			},
		},
		{
			name:   "negative retries clamp to zero",
			modify: func(c *Config) { c.Upstream.MaxRetries = -3 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 0, c.Upstream.MaxRetries)
			},
		},
		{
			name:   "batch size below one defaults to 20",
			modify: func(c *Config) { c.Upstream.BatchSize = 0 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultBatchSize, c.Upstream.BatchSize)
			},
		},
		{
			name:   "upstream timeout below one second defaults to 10s",
			modify: func(c *Config) { c.Upstream.Timeout = 10 * time.Millisecond },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultUpstreamTimeout, c.Upstream.Timeout)
			},
		},
		{
			name:   "ttl_ms overrides ttl",
			modify: func(c *Config) { c.Cache.TTLMs = 120000 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 2*time.Minute, c.Cache.TTL)
			},
		},
		{
			name:   "backend is normalised",
			modify: func(c *Config) { c.Cache.Backend = "Badger" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, CacheBackendBadger, c.Cache.Backend)
			},
		},
		{
			name:   "base URLs are normalised",
			modify: func(c *Config) {
				c.Upstream.CatalogBaseURL = "https://Catalog.GamePass.com/"
				c.Client.BaseURL = ""
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "https://catalog.gamepass.com", c.Upstream.CatalogBaseURL)
				assert.Equal(t, DefaultClientBaseURL, c.Client.BaseURL)
			},
		},
		{
			name:    "unsupported base URL scheme is rejected",
			modify:  func(c *Config) { c.Upstream.DisplayBaseURL = "ftp://displaycatalog" },
			wantErr: true,
		},
		{
			name:    "unknown backend is rejected",
			modify:  func(c *Config) { c.Cache.Backend = "redis" },
			wantErr: true,
		},
		{
			name: "client market follows gamepass market",
			modify: func(c *Config) {
				c.GamePass.Market = "US"
				c.Client.Market = ""
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "US", c.Client.Market)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// TestDefault tests default configuration
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "http://localhost:5173", cfg.Server.CORSOrigin)
	assert.Empty(t, cfg.Server.RefreshToken)

	assert.Equal(t, "BR", cfg.GamePass.Market)
	assert.Equal(t, "pt-BR", cfg.GamePass.Language)
	assert.Equal(t, "f6f1f99f-9b49-4ccd-b3bf-4d9767a77f5e", cfg.GamePass.CatalogIDs.Console)
	assert.Equal(t, "fdd9e2a7-0fee-49f6-ad69-4354098401ff", cfg.GamePass.CatalogIDs.PC)
	assert.Equal(t, "b8900d09-a491-44cc-916e-32b5acae621a", cfg.GamePass.CatalogIDs.EAPlay)
	assert.Equal(t, "f13cf6b4-57e6-4459-89df-6aec18cf0538", cfg.GamePass.CatalogIDs.All)

	assert.Equal(t, 20, cfg.Upstream.BatchSize)
	assert.Equal(t, 0, cfg.Upstream.MaxRetries)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)

	assert.Equal(t, 30*time.Minute, cfg.Client.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Client.FallbackTTL)

	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
}

func TestServerConfig_Helpers(t *testing.T) {
	s := ServerConfig{Port: 8080, Environment: "Production"}
	assert.True(t, s.IsProduction())
	assert.Equal(t, ":8080", s.Addr())

	s.Environment = EnvDevelopment
	assert.False(t, s.IsProduction())
}

// TestConfigDir tests config directory path
func TestConfigDir(t *testing.T) {
	assert.Contains(t, ConfigDir(), "gamepass")
	assert.True(t, strings.HasSuffix(CacheDir(), "cache"))
	assert.True(t, strings.HasSuffix(ConfigFilePath(), "config.yaml"))
}

// TestLoad_LoadWithMissingConfig tests loading with no config file
func TestLoad_LoadWithMissingConfig(t *testing.T) {
	isolate(t)

	cfg, v, err := LoadWithViper()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultMarket, cfg.GamePass.Market)
	assert.Equal(t, DefaultUpstreamTimeout, cfg.Upstream.Timeout)
}

// TestLoad_WithInvalidConfigFile tests loading with invalid config file
func TestLoad_WithInvalidConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("invalid: yaml: content: ["), 0644))

	cfg, _, err := LoadWithViper()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

// TestLoad_WithValidConfigFile tests loading with valid config file
func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := isolate(t)
	content := `
server:
  port: 8081
  refresh_token: "s3cret"
gamepass:
  market: "US"
  language: "en-US"
upstream:
  timeout: 5s
  batch_concurrency: 4
cache:
  backend: badger
  ttl: 10m
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, _, err := LoadWithViper()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Server.RefreshToken)
	assert.Equal(t, "US", cfg.GamePass.Market)
	assert.Equal(t, "en-US", cfg.Client.Language)
	assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 4, cfg.Upstream.BatchConcurrency)
	assert.Equal(t, CacheBackendBadger, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

// TestLoadWithEnvironmentVariable tests prefixed and legacy variables
func TestLoadWithEnvironmentVariable(t *testing.T) {
	t.Run("legacy names", func(t *testing.T) {
		isolate(t)
		t.Setenv("PORT", "5000")
		t.Setenv("NODE_ENV", "production")
		t.Setenv("DEFAULT_MARKET", "US")
		t.Setenv("CACHE_TTL_MS", "120000")
		t.Setenv("REFRESH_TOKEN", "tok")
		t.Setenv("CATALOG_ID_PC", "pc-catalog")

		cfg, _, err := LoadWithViper()
		require.NoError(t, err)

		assert.Equal(t, 5000, cfg.Server.Port)
		assert.True(t, cfg.Server.IsProduction())
		assert.Equal(t, "US", cfg.GamePass.Market)
		assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, "tok", cfg.Server.RefreshToken)
		assert.Equal(t, "pc-catalog", cfg.GamePass.CatalogIDs.PC)
	})

	t.Run("prefixed name wins over legacy", func(t *testing.T) {
		isolate(t)
		t.Setenv("PORT", "5000")
		t.Setenv("GAMEPASS_SERVER_PORT", "6000")

		cfg, _, err := LoadWithViper()
		require.NoError(t, err)
		assert.Equal(t, 6000, cfg.Server.Port)
	})

	t.Run("automatic env for unbound keys", func(t *testing.T) {
		isolate(t)
		t.Setenv("GAMEPASS_UPSTREAM_BATCH_SIZE", "7")

		cfg, _, err := LoadWithViper()
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Upstream.BatchSize)
	})
}

func TestConfig_YAML(t *testing.T) {
	data, err := Default().YAML()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "server:\n  port: 4000\n")
	assert.Contains(t, out, "ttl: 1h0m0s")
	assert.Contains(t, out, "timeout: 10s")
	assert.NotContains(t, out, "ttl_ms", "omitempty field written")

	t.Run("round trips through the loader", func(t *testing.T) {
		dir := isolate(t)
		cfg := Default()
		cfg.Server.Port = 8080
		cfg.Cache.TTL = 90 * time.Minute
		cfg.Upstream.BatchConcurrency = 3

		data, err := cfg.YAML()
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644))

		v := viper.New()
		v.SetConfigFile(filepath.Join(dir, "config.yaml"))
		loaded, err := load(v)
		require.NoError(t, err)

		assert.Equal(t, 8080, loaded.Server.Port)
		assert.Equal(t, 90*time.Minute, loaded.Cache.TTL)
		assert.Equal(t, 3, loaded.Upstream.BatchConcurrency)
		assert.Equal(t, DefaultCatalogIDPC, loaded.GamePass.CatalogIDs.PC)
	})
}
