package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Database     DatabaseConfig   `mapstructure:"database"`
	Logging      LoggingConfig    `mapstructure:"logging"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Security     SecurityConfig   `mapstructure:"security"`
	Ingestion    IngestionConfig  `mapstructure:"ingestion"`
	Playlist     PlaylistConfig   `mapstructure:"playlist"`
	Dashboards   DashboardsConfig `mapstructure:"dashboards"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings. Driver is "sqlite" (Path is
// used) or "postgres" (DSN is used).
type DatabaseConfig struct {
	Driver                string        `mapstructure:"driver"`
	Path                  string        `mapstructure:"path"`
	DSN                   string        `mapstructure:"dsn"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	EnableForeignKeys     bool          `mapstructure:"enable_foreign_keys"`
	Verbose               bool          `mapstructure:"verbose"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig contains rate limiting settings. Endpoints maps a route
// group to its per-client requests per second; "default" covers the rest.
type RateLimitConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	Endpoints map[string]int `mapstructure:"endpoints"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS     bool     `mapstructure:"enable_cors"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
}

// IngestionConfig controls how uploaded sheets are read
type IngestionConfig struct {
	SkipTitle     string `mapstructure:"skip_title"`
	DefaultFormat string `mapstructure:"default_format"`
}

// PlaylistConfig controls playlist generation. A zero seed means the
// generator is seeded from the clock.
type PlaylistConfig struct {
	Seed int64 `mapstructure:"seed"`
}

// DashboardsConfig lists the families refreshed after each batch
type DashboardsConfig struct {
	Families []string `mapstructure:"families"`
}
