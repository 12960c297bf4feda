package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "WAWTEE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "WAWTEE_DB_DSN"
	EnvDBHost = "WAWTEE_DB_HOST"
	EnvDBUser = "WAWTEE_DB_USER"
	EnvDBName = "WAWTEE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Stripe       StripeConfig
	PayPal       PayPalConfig
	Sendgrid     SendgridConfig
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
	Env          string `envconfig:"WAWTEE_APP_ENV" required:"true"`
	Port         string `envconfig:"WAWTEE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WAWTEE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WAWTEE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WAWTEE_DB_DSN"`
	Driver string `envconfig:"WAWTEE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WAWTEE_DB_HOST"`
	LegacyPort     int    `envconfig:"WAWTEE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WAWTEE_DB_USER"`
	LegacyPassword string `envconfig:"WAWTEE_DB_PASSWORD"`
	LegacyName     string `envconfig:"WAWTEE_DB_NAME"`
	LegacySSLMode  string `envconfig:"WAWTEE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WAWTEE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WAWTEE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WAWTEE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WAWTEE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WAWTEE_REDIS_URL"`
	Address      string        `envconfig:"WAWTEE_REDIS_ADDRESS"`
	Password     string        `envconfig:"WAWTEE_REDIS_PASSWORD"`
	DB           int           `envconfig:"WAWTEE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WAWTEE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WAWTEE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WAWTEE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WAWTEE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WAWTEE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WAWTEE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WAWTEE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WAWTEE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WAWTEE_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey string `envconfig:"WAWTEE_STRIPE_API_KEY"`
	Env    string `envconfig:"WAWTEE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type PayPalConfig struct {
	ClientID     string        `envconfig:"WAWTEE_PAYPAL_CLIENT_ID"`
	ClientSecret string        `envconfig:"WAWTEE_PAYPAL_CLIENT_SECRET"`
	Mode         string        `envconfig:"WAWTEE_PAYPAL_MODE" default:"sandbox"`
	HTTPTimeout  time.Duration `envconfig:"WAWTEE_PAYPAL_HTTP_TIMEOUT" default:"15s"`
	ReturnURL    string        `envconfig:"WAWTEE_PAYPAL_RETURN_URL" default:"/checkout/paypal/success"`
	CancelURL    string        `envconfig:"WAWTEE_PAYPAL_CANCEL_URL" default:"/checkout/paypal/cancel"`
}

// Live reports whether the PayPal integration targets the live API.
func (p PayPalConfig) Live() bool {
	return strings.EqualFold(strings.TrimSpace(p.Mode), "live")
}

type SendgridConfig struct {
	APIKey      string `envconfig:"WAWTEE_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"WAWTEE_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"WAWTEE_SENDGRID_FROM_NAME" default:"Waw-Tee"`
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
