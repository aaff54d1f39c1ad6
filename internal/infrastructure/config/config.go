// Package config loads connector settings from config.toml and MWS_ prefixed
// environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	MWS       MWSConfig       `mapstructure:"mws"`
	Wizard    WizardConfig    `mapstructure:"wizard"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// IsProduction enables the stricter validation rules and release mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns int `mapstructure:"max_open_conns"`
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	// lifetimes in minutes
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime int `mapstructure:"conn_max_idle_time"`

	MigrateOnStart bool `mapstructure:"migrate_on_start"`
}

// DSN is a postgres:// URL with user info and options escaped.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
	Issuer  string `mapstructure:"issuer"`
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`

	// Keyed by token subject, or client IP when auth is off.
	RateLimitEnabled   bool `mapstructure:"rate_limit_enabled"`
	RateLimitPerMinute int  `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst     int  `mapstructure:"rate_limit_burst"`
}

// MWSConfig configures the marketplace HTTP client.
type MWSConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RequestsPerS float64       `mapstructure:"requests_per_second"`
	Burst        int           `mapstructure:"burst"`
	UserAgent    string        `mapstructure:"user_agent"`
}

type WizardConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
}

// StorageConfig points at the S3 compatible bucket that archives feeds.
type StorageConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Endpoint     string `mapstructure:"endpoint"`
	Region       string `mapstructure:"region"`
	Bucket       string `mapstructure:"bucket"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UseSSL       bool   `mapstructure:"use_ssl"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"` // OTLP gRPC, host:port
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"`
	// Insecure skips TLS to the collector; development only.
	Insecure        bool          `mapstructure:"insecure"`
	MetricsEnabled  bool          `mapstructure:"metrics_enabled"`
	MetricsInterval time.Duration `mapstructure:"metrics_interval"`

	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`

	// LogsEnabled also ships zap records to the collector
	LogsEnabled bool `mapstructure:"logs_enabled"`

	Profiling ProfilingConfig `mapstructure:"profiling"`
}

// ProfilingConfig points continuous profiling at a Pyroscope server.
// It is independent of telemetry.enabled.
type ProfilingConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	ServerAddress     string   `mapstructure:"server_address"`
	BasicAuthUser     string   `mapstructure:"basic_auth_user"`
	BasicAuthPassword string   `mapstructure:"basic_auth_password"`
	ProfileTypes      []string `mapstructure:"profile_types"`
}

// defaults also registers every key so AutomaticEnv can override it.
var defaults = map[string]any{
	"app.name": "mws-connector",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "mws",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,
	"database.migrate_on_start":   false,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.enabled": false,
	"jwt.secret":  "",
	"jwt.issuer":  "mws-connector",

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout": 15 * time.Second,
	// catalog submissions for large accounts are slow
	"http.write_timeout":         120 * time.Second,
	"http.idle_timeout":          60 * time.Second,
	"http.max_header_bytes":      1 << 20,
	"http.max_body_size":         int64(10 << 20),
	"http.cors_allow_origins":    []string{},
	"http.cors_allow_methods":    []string{"GET", "POST", "DELETE", "OPTIONS"},
	"http.cors_allow_headers":    []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":       []string{},
	"http.rate_limit_enabled":    false,
	"http.rate_limit_per_minute": 120,
	"http.rate_limit_burst":      20,

	"mws.endpoint":            "https://mws.amazonservices.com",
	"mws.timeout":             60 * time.Second,
	"mws.requests_per_second": 1.0,
	"mws.burst":               5,
	"mws.user_agent":          "mws-connector/1.0 (Language=Go)",

	"wizard.session_ttl": 30 * time.Minute,
	"wizard.key_prefix":  "mws:wizard:",

	"storage.enabled":        false,
	"storage.endpoint":       "",
	"storage.region":         "us-east-1",
	"storage.bucket":         "",
	"storage.access_key":     "",
	"storage.secret_key":     "",
	"storage.use_ssl":        true,
	"storage.use_path_style": false,

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "mws-connector",
	"telemetry.insecure":                false,
	"telemetry.metrics_enabled":         false,
	"telemetry.metrics_interval":        60 * time.Second,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
	"telemetry.logs_enabled":            false,

	"telemetry.profiling.enabled":             false,
	"telemetry.profiling.server_address":      "",
	"telemetry.profiling.basic_auth_user":     "",
	"telemetry.profiling.basic_auth_password": "",
	"telemetry.profiling.profile_types":       []string{},
}

// Load reads config.toml from ., ./config or /etc/mws-connector if present,
// then applies MWS_ environment overrides (MWS_DATABASE_PASSWORD and so on).
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mws-connector")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every problem at once.
func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	db := c.Database
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)

	check(!c.JWT.Enabled || c.JWT.Secret != "", "jwt.secret is required when jwt.enabled is true")
	check(c.MWS.RequestsPerS >= 0, "mws.requests_per_second cannot be negative")
	if _, err := url.ParseRequestURI(c.MWS.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("mws.endpoint is not a valid URL: %w", err))
	}
	check(!c.Storage.Enabled || c.Storage.Bucket != "", "storage.bucket is required when storage.enabled is true")
	check(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)
	check(!c.Telemetry.Profiling.Enabled || c.Telemetry.Profiling.ServerAddress != "",
		"telemetry.profiling.server_address is required when profiling is enabled")

	if c.App.IsProduction() {
		check(db.Password != "", "database.password is required in production")
		check(db.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
		check(!c.JWT.Enabled || len(c.JWT.Secret) >= 32, "jwt.secret must be at least 32 characters in production")
		check(!slices.Contains(c.HTTP.CORSAllowOrigins, "*"), "http.cors_allow_origins cannot be '*' in production")
		check(!c.Telemetry.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production")
	}

	return errors.Join(errs...)
}
