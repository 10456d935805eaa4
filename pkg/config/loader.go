package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader loads and validates configuration.
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader with precedence ENV > file > defaults.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a loader. configFile may be empty; envPrefix is the
// prefix for environment overrides (e.g. "APP" -> APP_HTTP_PORT).
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{configFile: configFile, envPrefix: envPrefix}
}

// Load reads configuration from defaults, then the optional file, then the
// environment.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()
	l.setDefaults(v, DefaultConfig())

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	if l.envPrefix != "" {
		v.SetEnvPrefix(l.envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := l.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (l *ViperLoader) Validate(cfg *Config) error {
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.MongoDB.URL == "" {
		return errors.New("database.mongodb.url is required")
	}
	if cfg.Database.MongoDB.Database == "" {
		return errors.New("database.mongodb.database is required")
	}
	if cfg.Pagination.MaxLimit > 0 && cfg.Pagination.DefaultLimit > cfg.Pagination.MaxLimit {
		return fmt.Errorf("pagination.default_limit %d exceeds pagination.max_limit %d",
			cfg.Pagination.DefaultLimit, cfg.Pagination.MaxLimit)
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerSecond <= 0 {
		return errors.New("rate_limit.requests_per_second must be positive when rate limiting is enabled")
	}
	return nil
}

// setDefaults registers every default so AutomaticEnv can override each key.
func (l *ViperLoader) setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("service.name", d.Service.Name)
	v.SetDefault("service.environment", d.Service.Environment)

	v.SetDefault("http.port", d.HTTP.Port)
	v.SetDefault("http.read_timeout", d.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", d.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", d.HTTP.IdleTimeout)
	v.SetDefault("http.shutdown_timeout", d.HTTP.ShutdownTimeout)

	v.SetDefault("cors.enabled", d.CORS.Enabled)
	v.SetDefault("cors.allow_all_origins", d.CORS.AllowAllOrigins)
	v.SetDefault("cors.allow_origins", d.CORS.AllowOrigins)
	v.SetDefault("cors.allow_credentials", d.CORS.AllowCredentials)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)

	v.SetDefault("database.mongodb.url", d.Database.MongoDB.URL)
	v.SetDefault("database.mongodb.database", d.Database.MongoDB.Database)
	v.SetDefault("database.mongodb.connect_timeout", d.Database.MongoDB.ConnectTimeout)
	v.SetDefault("database.mongodb.operation_timeout", d.Database.MongoDB.OperationTimeout)
	v.SetDefault("database.mongodb.log_errors", d.Database.MongoDB.LogErrors)

	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)

	v.SetDefault("pagination.default_limit", d.Pagination.DefaultLimit)
	v.SetDefault("pagination.max_limit", d.Pagination.MaxLimit)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}
