package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Tax          TaxConfig
	AI           AIConfig
	Invoicing    InvoicingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Tax.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRADEFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"TRADEFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRADEFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRADEFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRADEFLOW_DB_DSN"`
	Driver string `envconfig:"TRADEFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRADEFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"TRADEFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRADEFLOW_DB_USER"`
	LegacyPassword string `envconfig:"TRADEFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRADEFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRADEFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRADEFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADEFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADEFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADEFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADEFLOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TRADEFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"TRADEFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRADEFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRADEFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADEFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADEFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADEFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADEFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// TaxConfig seeds new contractor profiles. Pricing computations read the rate
// and mode from the contractor profile, never from here directly.
type TaxConfig struct {
	DefaultSalesTaxRate float64 `envconfig:"TRADEFLOW_TAX_DEFAULT_SALES_TAX_RATE" default:"0"`
	DefaultMode         string  `envconfig:"TRADEFLOW_TAX_DEFAULT_MODE" default:"uniform"`
}

func (t TaxConfig) validate() error {
	if t.DefaultSalesTaxRate < 0 || t.DefaultSalesTaxRate > 100 {
		return fmt.Errorf("default sales tax rate must be within [0,100], got %v", t.DefaultSalesTaxRate)
	}
	switch strings.ToLower(strings.TrimSpace(t.DefaultMode)) {
	case "uniform", "per_item":
		return nil
	default:
		return fmt.Errorf("default tax mode must be uniform or per_item, got %q", t.DefaultMode)
	}
}

type AIConfig struct {
	BaseURL string        `envconfig:"TRADEFLOW_AI_BASE_URL"`
	APIKey  string        `envconfig:"TRADEFLOW_AI_API_KEY"`
	Timeout time.Duration `envconfig:"TRADEFLOW_AI_TIMEOUT" default:"15s"`
}

type InvoicingConfig struct {
	NetTermsDays       int           `envconfig:"TRADEFLOW_INVOICE_NET_TERMS_DAYS" default:"30"`
	OverdueSweepPeriod time.Duration `envconfig:"TRADEFLOW_INVOICE_OVERDUE_SWEEP_PERIOD" default:"1h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRADEFLOW_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRADEFLOW_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
