package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Rebrickable  RebrickableConfig
	BrickLink    BrickLinkConfig
	Barcode      BarcodeConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LEGOEATER_APP_ENV" default:"dev"`
	Port         string `envconfig:"LEGOEATER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LEGOEATER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LEGOEATER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LEGOEATER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LEGOEATER_DB_DSN" default:"legoeater.db"`
	Driver string `envconfig:"LEGOEATER_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"LEGOEATER_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"LEGOEATER_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"LEGOEATER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEGOEATER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch strings.ToLower(db.Driver) {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("database driver must be %q or %q", DriverSQLite, DriverPostgres)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"LEGOEATER_REDIS_URL"`
	PoolSize     int           `envconfig:"LEGOEATER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LEGOEATER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LEGOEATER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LEGOEATER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LEGOEATER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RebrickableConfig carries the set-catalog provider credentials.
type RebrickableConfig struct {
	APIKey  string `envconfig:"LEGOEATER_REBRICKABLE_API_KEY"`
	BaseURL string `envconfig:"LEGOEATER_REBRICKABLE_BASE_URL" default:"https://rebrickable.com/api/v3/lego"`
}

// BrickLinkConfig carries the OAuth 1.0a credential material for the price guide.
type BrickLinkConfig struct {
	ConsumerKey    string `envconfig:"LEGOEATER_BRICKLINK_CONSUMER_KEY"`
	ConsumerSecret string `envconfig:"LEGOEATER_BRICKLINK_CONSUMER_SECRET"`
	TokenValue     string `envconfig:"LEGOEATER_BRICKLINK_TOKEN_VALUE"`
	TokenSecret    string `envconfig:"LEGOEATER_BRICKLINK_TOKEN_SECRET"`
	BaseURL        string `envconfig:"LEGOEATER_BRICKLINK_BASE_URL" default:"https://api.bricklink.com/api/store/v1"`
}

type BarcodeConfig struct {
	BaseURL string `envconfig:"LEGOEATER_UPCITEMDB_BASE_URL" default:"https://api.upcitemdb.com/prod/trial/lookup"`
}

// SyncConfig shapes the price synchronizer cadence.
type SyncConfig struct {
	ItemDelay time.Duration `envconfig:"LEGOEATER_SYNC_ITEM_DELAY" default:"200ms"`
	Interval  time.Duration `envconfig:"LEGOEATER_SYNC_INTERVAL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LEGOEATER_AUTO_MIGRATE" default:"false"`
}
