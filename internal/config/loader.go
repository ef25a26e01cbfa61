package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by the loader
const EnvPrefix = "GAMEPASS"

// legacyEnv maps config keys to the unprefixed variable names accepted for
// compatibility with existing deployments. Prefixed names take precedence.
var legacyEnv = map[string]string{
	"server.port":                  "PORT",
	"server.environment":           "NODE_ENV",
	"server.cors_origin":           "CORS_ORIGIN",
	"server.refresh_token":         "REFRESH_TOKEN",
	"gamepass.market":              "DEFAULT_MARKET",
	"gamepass.language":            "DEFAULT_LANGUAGE",
	"gamepass.catalog_ids.console": "CATALOG_ID_CONSOLE",
	"gamepass.catalog_ids.pc":      "CATALOG_ID_PC",
	"gamepass.catalog_ids.eaplay":  "CATALOG_ID_EAPLAY",
	"gamepass.catalog_ids.all":     "CATALOG_ID_ALL",
	"cache.ttl_ms":                 "CACHE_TTL_MS",
}

// Load loads configuration from file, environment, and defaults
// Uses the global viper instance to access CLI flag bindings
func Load() (*Config, error) {
	return load(viper.GetViper())
}

// LoadWithViper loads configuration and returns the viper instance
// This is useful for merging CLI flags later
func LoadWithViper() (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := load(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate and apply defaults for invalid values
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindEnv wires GAMEPASS_* variables and the legacy names in legacyEnv
func bindEnv(v *viper.Viper) {
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(replacer.Replace(key))
		_ = v.BindEnv(key, prefixed, legacy)
	}
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	// Server defaults
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.environment", d.Server.Environment)
	v.SetDefault("server.cors_origin", d.Server.CORSOrigin)
	v.SetDefault("server.refresh_token", "")
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	// Game Pass defaults
	v.SetDefault("gamepass.market", d.GamePass.Market)
	v.SetDefault("gamepass.language", d.GamePass.Language)
	v.SetDefault("gamepass.catalog_ids.console", d.GamePass.CatalogIDs.Console)
	v.SetDefault("gamepass.catalog_ids.pc", d.GamePass.CatalogIDs.PC)
	v.SetDefault("gamepass.catalog_ids.eaplay", d.GamePass.CatalogIDs.EAPlay)
	v.SetDefault("gamepass.catalog_ids.all", d.GamePass.CatalogIDs.All)

	// Upstream defaults
	v.SetDefault("upstream.catalog_base_url", d.Upstream.CatalogBaseURL)
	v.SetDefault("upstream.display_base_url", d.Upstream.DisplayBaseURL)
	v.SetDefault("upstream.timeout", d.Upstream.Timeout)
	v.SetDefault("upstream.max_retries", d.Upstream.MaxRetries)
	v.SetDefault("upstream.batch_size", d.Upstream.BatchSize)
	v.SetDefault("upstream.batch_concurrency", d.Upstream.BatchConcurrency)
	v.SetDefault("upstream.user_agent", "")
	v.SetDefault("upstream.breaker_threshold", d.Upstream.BreakerThreshold)
	v.SetDefault("upstream.breaker_reset", d.Upstream.BreakerReset)

	// Cache defaults
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.ttl_ms", 0)

	// Client defaults
	v.SetDefault("client.base_url", d.Client.BaseURL)
	v.SetDefault("client.cache_dir", d.Client.CacheDir)
	v.SetDefault("client.ttl", d.Client.TTL)
	v.SetDefault("client.fallback_ttl", d.Client.FallbackTTL)
	v.SetDefault("client.market", "")
	v.SetDefault("client.language", "")
	v.SetDefault("client.timeout", d.Client.Timeout)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}
