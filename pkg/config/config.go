// Package config defines the service configuration and its viper-based
// loading.
package config

import "time"

// Config is the root configuration for the service.
type Config struct {
	Service    ServiceConfig
	HTTP       HTTPConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Database   DatabaseConfig
	Auth       AuthConfig
	Pagination PaginationConfig
	Logging    LoggingConfig
}

// ServiceConfig identifies the service.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig configures the public API server.
type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CORSConfig configures cross-origin access.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowAllOrigins  bool     `mapstructure:"allow_all_origins"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
}

// DatabaseConfig configures the document store connection.
type DatabaseConfig struct {
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
}

// MongoDBConfig holds MongoDB connection settings.
type MongoDBConfig struct {
	URL              string        `mapstructure:"url"`
	Database         string        `mapstructure:"database"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
	LogErrors        bool          `mapstructure:"log_errors"`
}

// AuthConfig configures token issuing and verification.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// PaginationConfig bounds list-request page sizes.
type PaginationConfig struct {
	DefaultLimit int64 `mapstructure:"default_limit"`
	MaxLimit     int64 `mapstructure:"max_limit"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the configuration defaults applied below file and
// environment overrides.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "nest-rest-api",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		CORS: CORSConfig{
			Enabled:         true,
			AllowAllOrigins: true,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 100,
			Burst:             200,
		},
		Database: DatabaseConfig{
			MongoDB: MongoDBConfig{
				URL:              "mongodb://localhost:27017",
				Database:         "nest_rest_api",
				ConnectTimeout:   5 * time.Second,
				OperationTimeout: 5 * time.Second,
				LogErrors:        true,
			},
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Pagination: PaginationConfig{
			DefaultLimit: 100,
			MaxLimit:     500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
