// Package config loads and validates process configuration from the
// environment. Validation failures abort startup.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Config is the full process configuration.
type Config struct {
	Environment  string
	Port         int
	LogLevel     string
	CORSOrigins  []string
	RateLimitRPM int

	Database DatabaseConfig
	Redis    RedisConfig
}

// DatabaseConfig configures the postgres pool.
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
}

// RedisConfig configures the optional redis cache. Redis is enabled only
// when a host is configured; otherwise the in-memory cache adapter is used.
type RedisConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DB       int
}

// Enabled reports whether a redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// Addr returns the host:port dial address.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration from the environment, layering an optional
// .env file underneath, and validates it.
func Load() (*Config, error) {
	// missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPM", 300)

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)

	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	cfg := &Config{
		Environment:  v.GetString("APP_ENV"),
		Port:         v.GetInt("PORT"),
		LogLevel:     strings.ToLower(v.GetString("LOG_LEVEL")),
		CORSOrigins:  splitOrigins(v.GetString("CORS_ORIGINS")),
		RateLimitRPM: v.GetInt("RATE_LIMIT_RPM"),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Username: v.GetString("REDIS_USER"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every required field and value range.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("config: APP_ENV must be one of %s, %s, %s; got %q",
			EnvDevelopment, EnvTest, EnvProduction, c.Environment)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: PORT must be in [1, 65535]; got %d", c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}

	// zero disables rate limiting
	if c.RateLimitRPM < 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPM must not be negative; got %d", c.RateLimitRPM)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config: DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("config: DB_PASSWORD is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: DB_PORT must be in [1, 65535]; got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: DB_MAX_CONNS must be positive; got %d", c.Database.MaxConns)
	}

	if c.Redis.Enabled() && (c.Redis.Port < 1 || c.Redis.Port > 65535) {
		return fmt.Errorf("config: REDIS_PORT must be in [1, 65535]; got %d", c.Redis.Port)
	}

	return nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// IsProduction reports whether the process runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
