package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "PUDIM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Storefront    StorefrontConfig
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
	Env          string `envconfig:"PUDIM_APP_ENV" required:"true"`
	Port         string `envconfig:"PUDIM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PUDIM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PUDIM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PUDIM_DB_DSN"`
	Driver string `envconfig:"PUDIM_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PUDIM_DB_HOST"`
	Port     int    `envconfig:"PUDIM_DB_PORT" default:"5432"`
	User     string `envconfig:"PUDIM_DB_USER"`
	Password string `envconfig:"PUDIM_DB_PASSWORD"`
	Name     string `envconfig:"PUDIM_DB_NAME"`
	SSLMode  string `envconfig:"PUDIM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PUDIM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PUDIM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PUDIM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PUDIM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PUDIM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PUDIM_REDIS_ADDR"`
	Password     string        `envconfig:"PUDIM_REDIS_PASSWORD"`
	DB           int           `envconfig:"PUDIM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PUDIM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PUDIM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PUDIM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PUDIM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PUDIM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PUDIM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PUDIM_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PUDIM_JWT_EXPIRATION_MINUTES" default:"480"`
}

// Expiration returns the access token TTL.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PUDIM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PUDIM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PUDIM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PUDIM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PUDIM_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"PUDIM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"PUDIM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"PUDIM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PUDIM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PUDIM_AUTO_MIGRATE" default:"false"`
}

// StorefrontConfig carries the outward-facing storefront knobs.
type StorefrontConfig struct {
	// WhatsAppPhone is the destination of the checkout handoff deep link,
	// in international format without the plus sign.
	WhatsAppPhone  string        `envconfig:"PUDIM_WHATSAPP_PHONE" required:"true"`
	CartSessionTTL time.Duration `envconfig:"PUDIM_CART_SESSION_TTL" default:"168h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		"PUDIM_DB_HOST": db.Host,
		"PUDIM_DB_USER": db.User,
		"PUDIM_DB_NAME": db.Name,
	}
	for _, key := range []string{"PUDIM_DB_HOST", "PUDIM_DB_USER", "PUDIM_DB_NAME"} {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either PUDIM_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
