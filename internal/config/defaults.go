package config

import (
	"os"
	"path/filepath"
	"time"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendBadger = "badger"
)

// Default values
const (
	// Server defaults
	DefaultPort            = 4000
	DefaultEnvironment     = EnvDevelopment
	DefaultCORSOrigin      = "http://localhost:5173"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	// Game Pass defaults
	DefaultMarket           = "BR"
	DefaultLanguage         = "pt-BR"
	DefaultCatalogIDConsole = "f6f1f99f-9b49-4ccd-b3bf-4d9767a77f5e"
	DefaultCatalogIDPC      = "fdd9e2a7-0fee-49f6-ad69-4354098401ff"
	DefaultCatalogIDEAPlay  = "b8900d09-a491-44cc-916e-32b5acae621a"
	DefaultCatalogIDAll     = "f13cf6b4-57e6-4459-89df-6aec18cf0538"

	// Upstream defaults
	DefaultCatalogBaseURL   = "https://catalog.gamepass.com"
	DefaultDisplayBaseURL   = "https://displaycatalog.mp.microsoft.com"
	DefaultUpstreamTimeout  = 10 * time.Second
	DefaultMaxRetries       = 0
	DefaultBatchSize        = 20
	DefaultBatchConcurrency = 1
	DefaultBreakerReset     = 30 * time.Second

	// Cache defaults
	DefaultCacheBackend = CacheBackendMemory
	DefaultCacheTTL     = time.Hour

	// Client defaults
	DefaultClientBaseURL = "http://localhost:4000"
	DefaultClientTTL     = 30 * time.Minute
	DefaultFallbackTTL   = 5 * time.Minute
	DefaultClientTimeout = 15 * time.Second

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gamepass"
	}
	return filepath.Join(home, ".gamepass")
}

// CacheDir returns the client cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			Environment:     DefaultEnvironment,
			CORSOrigin:      DefaultCORSOrigin,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		GamePass: GamePassConfig{
			Market:   DefaultMarket,
			Language: DefaultLanguage,
			CatalogIDs: CatalogIDsConfig{
				Console: DefaultCatalogIDConsole,
				PC:      DefaultCatalogIDPC,
				EAPlay:  DefaultCatalogIDEAPlay,
				All:     DefaultCatalogIDAll,
			},
		},
		Upstream: UpstreamConfig{
			CatalogBaseURL:   DefaultCatalogBaseURL,
			DisplayBaseURL:   DefaultDisplayBaseURL,
			Timeout:          DefaultUpstreamTimeout,
			MaxRetries:       DefaultMaxRetries,
			BatchSize:        DefaultBatchSize,
			BatchConcurrency: DefaultBatchConcurrency,
			BreakerReset:     DefaultBreakerReset,
		},
		Cache: CacheConfig{
			Backend: DefaultCacheBackend,
			TTL:     DefaultCacheTTL,
		},
		Client: ClientConfig{
			BaseURL:     DefaultClientBaseURL,
			CacheDir:    CacheDir(),
			TTL:         DefaultClientTTL,
			FallbackTTL: DefaultFallbackTTL,
			Market:      DefaultMarket,
			Language:    DefaultLanguage,
			Timeout:     DefaultClientTimeout,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
