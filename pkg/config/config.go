package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Commerce CommerceConfig
	Quotes   QuotesConfig

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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARTQUOTES_APP_ENV" required:"true"`
	Port         string `envconfig:"CARTQUOTES_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CARTQUOTES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTQUOTES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CARTQUOTES_DB_DSN"`
	Driver string `envconfig:"CARTQUOTES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CARTQUOTES_DB_HOST"`
	LegacyPort     int    `envconfig:"CARTQUOTES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CARTQUOTES_DB_USER"`
	LegacyPassword string `envconfig:"CARTQUOTES_DB_PASSWORD"`
	LegacyName     string `envconfig:"CARTQUOTES_DB_NAME"`
	LegacySSLMode  string `envconfig:"CARTQUOTES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARTQUOTES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARTQUOTES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARTQUOTES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARTQUOTES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTQUOTES_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CARTQUOTES_REDIS_ADDR"`
	Password     string        `envconfig:"CARTQUOTES_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTQUOTES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTQUOTES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTQUOTES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTQUOTES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTQUOTES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTQUOTES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CARTQUOTES_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CARTQUOTES_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CARTQUOTES_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CARTQUOTES_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// CommerceConfig points at the checkout/cart engine consumed during quote use.
type CommerceConfig struct {
	BaseURL   string        `envconfig:"CARTQUOTES_COMMERCE_BASE_URL" required:"true"`
	AuthToken string        `envconfig:"CARTQUOTES_COMMERCE_AUTH_TOKEN"`
	Timeout   time.Duration `envconfig:"CARTQUOTES_COMMERCE_TIMEOUT" default:"10s"`
}

// QuotesConfig carries lifecycle tunables for the quote workflow.
type QuotesConfig struct {
	CartLifeSpanDays int           `envconfig:"CARTQUOTES_CART_LIFE_SPAN_DAYS" default:"30"`
	SchemaVersion    string        `envconfig:"CARTQUOTES_SCHEMA_VERSION" default:"v6.3"`
	StoreLogoURL     string        `envconfig:"CARTQUOTES_STORE_LOGO_URL"`
	SetupCacheTTL    time.Duration `envconfig:"CARTQUOTES_SETUP_CACHE_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CARTQUOTES_AUTO_MIGRATE" default:"false"`
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
