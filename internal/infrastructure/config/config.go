package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides (ITEMTRACK_DATABASE_HOST, ...)
const EnvPrefix = "ITEMTRACK"

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Log          LogConfig
	HTTP         HTTPConfig
	Inventory    InventoryConfig
	CatalogCache CatalogCacheConfig
	Metrics      MetricsConfig
	Telemetry    TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file path
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	SlowThreshold   time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds token validation settings
type JWTConfig struct {
	Secret string
	Issuer string
	// Leeway tolerates clock skew between issuer and this service
	Leeway time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64
	TrustedProxies  []string
}

// InventoryConfig holds the bulk engine tunables
type InventoryConfig struct {
	SampleLimit     int
	MaxBulkQuantity int
	ReturnPolicy    string
	InsertBatchSize int
}

// CatalogCacheConfig controls caching of item types
type CatalogCacheConfig struct {
	Enabled bool
	Backend string // redis or memory
	TTL     time.Duration
}

// MetricsConfig controls the Prometheus endpoint and the gauge refresh job
type MetricsConfig struct {
	Enabled     bool
	Path        string
	RefreshCron string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool

	// MetricsExport pushes operation counters over OTLP next to the Prometheus endpoint
	MetricsExport         bool
	MetricsExportInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "itemtrack")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "itemtrack")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "itemtrack.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "itemtrack")
	v.SetDefault("jwt.leeway", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.max_body_size", 1<<20)
	v.SetDefault("http.trusted_proxies", []string{})

	v.SetDefault("inventory.sample_limit", 20)
	v.SetDefault("inventory.max_bulk_quantity", 10000)
	v.SetDefault("inventory.return_policy", "same_holder")
	v.SetDefault("inventory.insert_batch_size", 500)

	v.SetDefault("catalog_cache.enabled", true)
	v.SetDefault("catalog_cache.backend", "memory")
	v.SetDefault("catalog_cache.ttl", 5*time.Minute)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.refresh_cron", "@every 1m")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.collector_endpoint", "localhost:4317")
	v.SetDefault("telemetry.sampling_ratio", 1.0)
	v.SetDefault("telemetry.service_name", "itemtrack")
	v.SetDefault("telemetry.insecure", false)
	v.SetDefault("telemetry.db_trace_enabled", false)
	v.SetDefault("telemetry.metrics_export", false)
	v.SetDefault("telemetry.metrics_export_interval", time.Minute)
}

// Load reads configuration. Precedence from highest to lowest:
// environment (ITEMTRACK_*, optionally seeded from a .env file), config.toml, defaults.
// An explicit configFile overrides the search path.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/itemtrack")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			LogLevel:        v.GetString("database.log_level"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
			Leeway: v.GetDuration("jwt.leeway"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
			TrustedProxies:  v.GetStringSlice("http.trusted_proxies"),
		},
		Inventory: InventoryConfig{
			SampleLimit:     v.GetInt("inventory.sample_limit"),
			MaxBulkQuantity: v.GetInt("inventory.max_bulk_quantity"),
			ReturnPolicy:    v.GetString("inventory.return_policy"),
			InsertBatchSize: v.GetInt("inventory.insert_batch_size"),
		},
		CatalogCache: CatalogCacheConfig{
			Enabled: v.GetBool("catalog_cache.enabled"),
			Backend: strings.ToLower(v.GetString("catalog_cache.backend")),
			TTL:     v.GetDuration("catalog_cache.ttl"),
		},
		Metrics: MetricsConfig{
			Enabled:     v.GetBool("metrics.enabled"),
			Path:        v.GetString("metrics.path"),
			RefreshCron: v.GetString("metrics.refresh_cron"),
		},
		Telemetry: TelemetryConfig{
			Enabled:               v.GetBool("telemetry.enabled"),
			CollectorEndpoint:     v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:         v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:           v.GetString("telemetry.service_name"),
			Insecure:              v.GetBool("telemetry.insecure"),
			DBTraceEnabled:        v.GetBool("telemetry.db_trace_enabled"),
			MetricsExport:         v.GetBool("telemetry.metrics_export"),
			MetricsExportInterval: v.GetDuration("telemetry.metrics_export_interval"),
		},
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Inventory.SampleLimit < 1 {
		return fmt.Errorf("inventory.sample_limit must be at least 1")
	}
	if c.Inventory.MaxBulkQuantity < 1 {
		return fmt.Errorf("inventory.max_bulk_quantity must be at least 1")
	}
	if c.Inventory.InsertBatchSize < 1 {
		return fmt.Errorf("inventory.insert_batch_size must be at least 1")
	}
	switch c.Inventory.ReturnPolicy {
	case "permissive", "same_holder", "owner_only":
	default:
		return fmt.Errorf("inventory.return_policy must be permissive, same_holder or owner_only, got %q", c.Inventory.ReturnPolicy)
	}

	if c.CatalogCache.Enabled {
		if c.CatalogCache.Backend != "redis" && c.CatalogCache.Backend != "memory" {
			return fmt.Errorf("catalog_cache.backend must be redis or memory, got %q", c.CatalogCache.Backend)
		}
		if c.CatalogCache.TTL <= 0 {
			return fmt.Errorf("catalog_cache.ttl must be positive")
		}
	}

	if c.Metrics.Enabled && c.Metrics.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.Metrics.RefreshCron); err != nil {
			return fmt.Errorf("metrics.refresh_cron: %w", err)
		}
	}

	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver == "postgres" && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	} else if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	return nil
}

// DSN returns the PostgreSQL connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the Redis host:port address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
