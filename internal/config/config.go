package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const DefaultJWTSecret = "change-me-in-production"

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	SentryDSN     string `toml:"-"`

	// postgres
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresPassword string `toml:"-"`
	PostgresSSLMode  string `toml:"postgres_ssl_mode"`
	PostgresTimeZone string `toml:"postgres_time_zone"`

	// redis
	RedisHost     string `toml:"redis_host"`
	RedisPort     string `toml:"redis_port"`
	RedisPassword string `toml:"-"`

	// auth
	JWTSecret                   string        `toml:"-"`
	TokenExpiry                 time.Duration `toml:"-"`
	AdminPasswordHash           string        `toml:"-"`
	LoginRateLimitAllowed       int           `toml:"login_rate_limit_allowed"`
	LoginRateLimitWindow        time.Duration `toml:"-"`
	LoginRateLimitWindowMinutes int           `toml:"login_rate_limit_window_minutes"`

	// set only when a reverse proxy overwrites X-Real-Ip / X-Forwarded-For
	TrustProxyHeaders bool `toml:"trust_proxy_headers"`

	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`

	// telemetry
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	HoneycombEnabled      bool   `toml:"honeycomb_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the env section of the TOML file at path, then applies
// environment variable overrides (a .env file in the working dir is loaded first, if present).
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env %s missing", env)
	}
	cfg.Environment = strings.ToLower(env)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT [%s]: %w", port, err)
		}
		c.Port = p
	}

	setFromEnv(&c.PostgresHost, "DB_HOST")
	setFromEnv(&c.PostgresPort, "DB_PORT")
	setFromEnv(&c.PostgresDBName, "DB_NAME")
	setFromEnv(&c.PostgresUser, "DB_USER")
	setFromEnv(&c.PostgresPassword, "DB_PASSWORD")
	setFromEnv(&c.PostgresSSLMode, "DB_SSLMODE")
	setFromEnv(&c.PostgresTimeZone, "DB_TIMEZONE")
	setFromEnv(&c.RedisHost, "REDIS_HOST")
	setFromEnv(&c.RedisPort, "REDIS_PORT")
	setFromEnv(&c.RedisPassword, "REDIS_PASSWORD")
	setFromEnv(&c.JWTSecret, "JWT_SECRET")
	setFromEnv(&c.AdminPasswordHash, "ADMIN_PASSWORD_HASH")
	setFromEnv(&c.SentryDSN, "SENTRY_DSN")

	if expiry := os.Getenv("TOKEN_EXPIRY"); expiry != "" {
		d, err := time.ParseDuration(expiry)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_EXPIRY [%s]: %w", expiry, err)
		}
		c.TokenExpiry = d
	}

	if honeycomb := os.Getenv("HONEYCOMB_ENABLED"); honeycomb != "" {
		c.HoneycombEnabled = honeycomb == "true"
	}
	if trust := os.Getenv("TRUST_PROXY_HEADERS"); trust != "" {
		c.TrustProxyHeaders = trust == "true"
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 3001
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.PostgresSSLMode == "" {
		c.PostgresSSLMode = "disable"
	}
	if c.PostgresTimeZone == "" {
		c.PostgresTimeZone = "UTC"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.JWTSecret == "" {
		c.JWTSecret = DefaultJWTSecret
	}
	if c.TokenExpiry == 0 {
		c.TokenExpiry = 24 * time.Hour
	}
	if c.LoginRateLimitAllowed == 0 {
		c.LoginRateLimitAllowed = 5
	}
	if c.LoginRateLimitWindowMinutes == 0 {
		c.LoginRateLimitWindowMinutes = 15
	}
	c.LoginRateLimitWindow = time.Duration(c.LoginRateLimitWindowMinutes) * time.Minute
}

func (c *Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}

// Validate rejects configurations that must never reach production.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.TokenExpiry < 0 {
		return fmt.Errorf("token expiry must be positive, got %s", c.TokenExpiry)
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		return errors.New("postgres host and db name must be set")
	}
	return nil
}

func setFromEnv(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}
