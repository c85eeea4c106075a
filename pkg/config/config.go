package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "INSIGHTS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Engine       EngineConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyFeatureFlags()
	if err := cfg.Engine.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyFeatureFlags resolves flags that override plain settings. UseSQLite
// forces the sqlite driver regardless of the configured one, for local
// development without a Postgres instance.
func (c *Config) applyFeatureFlags() {
	if c.FeatureFlags.UseSQLite {
		c.DB.Driver = "sqlite"
	}
}

type AppConfig struct {
	Env          string `envconfig:"INSIGHTS_APP_ENV" default:"dev"`
	Port         string `envconfig:"INSIGHTS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"INSIGHTS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INSIGHTS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"INSIGHTS_DB_DSN"`
	Driver string `envconfig:"INSIGHTS_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"INSIGHTS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"INSIGHTS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"INSIGHTS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INSIGHTS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"INSIGHTS_REDIS_URL"`
	Address      string        `envconfig:"INSIGHTS_REDIS_ADDR"`
	Password     string        `envconfig:"INSIGHTS_REDIS_PASSWORD"`
	DB           int           `envconfig:"INSIGHTS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INSIGHTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INSIGHTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INSIGHTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INSIGHTS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INSIGHTS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a cache connection was configured at all. The
// report cache is advisory; the service runs without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// EngineConfig bounds the query pipeline. The per-handler timeout must stay
// below the overall query timeout so a slow computation degrades to a
// polite error before the caller gives up.
type EngineConfig struct {
	QueryTimeout   time.Duration `envconfig:"INSIGHTS_ENGINE_QUERY_TIMEOUT" default:"10s"`
	HandlerTimeout time.Duration `envconfig:"INSIGHTS_ENGINE_HANDLER_TIMEOUT" default:"5s"`
	CacheTTL       time.Duration `envconfig:"INSIGHTS_ENGINE_CACHE_TTL" default:"5m"`
}

func (e EngineConfig) validate() error {
	if e.QueryTimeout <= 0 || e.HandlerTimeout <= 0 {
		return fmt.Errorf("engine timeouts must be positive")
	}
	if e.HandlerTimeout >= e.QueryTimeout {
		return fmt.Errorf("handler timeout (%s) must be below the query timeout (%s)", e.HandlerTimeout, e.QueryTimeout)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"INSIGHTS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"INSIGHTS_AUTO_MIGRATE" default:"false"`
}
