package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	GamePass GamePassConfig `mapstructure:"gamepass" yaml:"gamepass"`
	Upstream UpstreamConfig `mapstructure:"upstream" yaml:"upstream"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Client   ClientConfig   `mapstructure:"client" yaml:"client"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP façade settings
type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	Environment     string        `mapstructure:"environment" yaml:"environment"`
	CORSOrigin      string        `mapstructure:"cors_origin" yaml:"cors_origin"`
	RefreshToken    string        `mapstructure:"refresh_token" yaml:"refresh_token"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// IsProduction reports whether error details must be hidden from clients.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, EnvProduction)
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// GamePassConfig contains the default market, language and catalog identifiers
type GamePassConfig struct {
	Market     string           `mapstructure:"market" yaml:"market"`
	Language   string           `mapstructure:"language" yaml:"language"`
	CatalogIDs CatalogIDsConfig `mapstructure:"catalog_ids" yaml:"catalog_ids"`
}

// Defaults returns the market and language applied to partial queries.
func (g GamePassConfig) Defaults() domain.Defaults {
	return domain.Defaults{Market: g.Market, Language: g.Language}
}

// CatalogIDsConfig holds the upstream catalog identifier per platform group
type CatalogIDsConfig struct {
	Console string `mapstructure:"console" yaml:"console"`
	PC      string `mapstructure:"pc" yaml:"pc"`
	EAPlay  string `mapstructure:"eaplay" yaml:"eaplay"`
	All     string `mapstructure:"all" yaml:"all"`
}

// UpstreamConfig contains settings for the third-party catalog APIs
type UpstreamConfig struct {
	CatalogBaseURL   string        `mapstructure:"catalog_base_url" yaml:"catalog_base_url"`
	DisplayBaseURL   string        `mapstructure:"display_base_url" yaml:"display_base_url"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries       int           `mapstructure:"max_retries" yaml:"max_retries"`
	BatchSize        int           `mapstructure:"batch_size" yaml:"batch_size"`
	BatchConcurrency int           `mapstructure:"batch_concurrency" yaml:"batch_concurrency"`
	UserAgent        string        `mapstructure:"user_agent" yaml:"user_agent"`
	// BreakerThreshold consecutive failures open the circuit breaker; 0 disables it
	BreakerThreshold int           `mapstructure:"breaker_threshold" yaml:"breaker_threshold"`
	BreakerReset     time.Duration `mapstructure:"breaker_reset" yaml:"breaker_reset"`
}

// CacheConfig contains catalog cache settings
type CacheConfig struct {
	Backend string        `mapstructure:"backend" yaml:"backend"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
	TTLMs   int64         `mapstructure:"ttl_ms" yaml:"ttl_ms,omitempty"`
}

// ClientConfig contains settings for the façade consumer
type ClientConfig struct {
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	CacheDir    string        `mapstructure:"cache_dir" yaml:"cache_dir"`
	TTL         time.Duration `mapstructure:"ttl" yaml:"ttl"`
	FallbackTTL time.Duration `mapstructure:"fallback_ttl" yaml:"fallback_ttl"`
	Market      string        `mapstructure:"market" yaml:"market"`
	Language    string        `mapstructure:"language" yaml:"language"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Environment == "" {
		c.Server.Environment = DefaultEnvironment
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.GamePass.Market == "" {
		c.GamePass.Market = DefaultMarket
	}
	if c.GamePass.Language == "" {
		c.GamePass.Language = DefaultLanguage
	}
	if c.GamePass.CatalogIDs.All == "" {
		c.GamePass.CatalogIDs.All = DefaultCatalogIDAll
	}

	var err error
	if c.Upstream.CatalogBaseURL, err = baseURL(c.Upstream.CatalogBaseURL, DefaultCatalogBaseURL); err != nil {
		return fmt.Errorf("invalid upstream.catalog_base_url: %w", err)
	}
	if c.Upstream.DisplayBaseURL, err = baseURL(c.Upstream.DisplayBaseURL, DefaultDisplayBaseURL); err != nil {
		return fmt.Errorf("invalid upstream.display_base_url: %w", err)
	}
	if c.Upstream.Timeout < time.Second {
		c.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if c.Upstream.MaxRetries < 0 {
		c.Upstream.MaxRetries = 0
	}
	if c.Upstream.BatchSize < 1 {
		c.Upstream.BatchSize = DefaultBatchSize
	}
	if c.Upstream.BatchConcurrency < 1 {
		c.Upstream.BatchConcurrency = DefaultBatchConcurrency
	}
	if c.Upstream.BreakerThreshold < 0 {
		c.Upstream.BreakerThreshold = 0
	}
	if c.Upstream.BreakerReset <= 0 {
		c.Upstream.BreakerReset = DefaultBreakerReset
	}

	if c.Cache.TTLMs > 0 {
		c.Cache.TTL = time.Duration(c.Cache.TTLMs) * time.Millisecond
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	switch strings.ToLower(c.Cache.Backend) {
	case "":
		c.Cache.Backend = CacheBackendMemory
	case CacheBackendMemory, CacheBackendBadger:
		c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	default:
		return fmt.Errorf("invalid cache.backend %q: must be %q or %q",
			c.Cache.Backend, CacheBackendMemory, CacheBackendBadger)
	}

	if c.Client.BaseURL, err = baseURL(c.Client.BaseURL, DefaultClientBaseURL); err != nil {
		return fmt.Errorf("invalid client.base_url: %w", err)
	}
	if c.Client.TTL < time.Minute {
		c.Client.TTL = DefaultClientTTL
	}
	if c.Client.FallbackTTL < time.Minute {
		c.Client.FallbackTTL = DefaultFallbackTTL
	}
	if c.Client.Timeout < time.Second {
		c.Client.Timeout = DefaultClientTimeout
	}
	if c.Client.Market == "" {
		c.Client.Market = c.GamePass.Market
	}
	if c.Client.Language == "" {
		c.Client.Language = c.GamePass.Language
	}
	return nil
}

// baseURL normalizes raw, falling back to def when raw is empty
func baseURL(raw, def string) (string, error) {
	if raw == "" {
		raw = def
	}
	return utils.NormalizeBaseURL(raw)
}
