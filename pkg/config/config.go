package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is passed to envconfig; every variable is fully qualified in the
// struct tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	Import        ImportConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"AGRIHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"AGRIHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGRIHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGRIHUB_LOG_WARN_STACK" default:"false"`
	CookieDomain string   `envconfig:"AGRIHUB_COOKIE_DOMAIN"`
	CookieSecure bool     `envconfig:"AGRIHUB_COOKIE_SECURE" default:"true"`
	CORSOrigins  []string `envconfig:"AGRIHUB_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AGRIHUB_DB_DSN"`
	Driver string `envconfig:"AGRIHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGRIHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"AGRIHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGRIHUB_DB_USER"`
	LegacyPassword string `envconfig:"AGRIHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGRIHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGRIHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGRIHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGRIHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGRIHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGRIHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN backfills the DSN from the legacy discrete variables when only
// those are set.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN is required (set AGRIHUB_DB_DSN or the AGRIHUB_DB_HOST/USER/NAME variables)")
	}
	userInfo := url.User(d.LegacyUser)
	if d.LegacyPassword != "" {
		userInfo = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:     d.LegacyName,
		RawQuery: "sslmode=" + d.LegacySSLMode,
	}
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"AGRIHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGRIHUB_REDIS_ADDR"`
	Password     string        `envconfig:"AGRIHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGRIHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGRIHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGRIHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGRIHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGRIHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGRIHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret         string `envconfig:"AGRIHUB_JWT_SECRET" required:"true"`
	Issuer         string `envconfig:"AGRIHUB_JWT_ISSUER" required:"true"`
	SessionTTLDays int    `envconfig:"AGRIHUB_SESSION_TTL_DAYS" default:"7"`
}

// SessionTTL returns the signed-token and session-row lifetime. Both expiry
// checks are derived from the same duration so they stay consistent.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLDays <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLDays) * 24 * time.Hour
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"AGRIHUB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"AGRIHUB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"AGRIHUB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type ImportConfig struct {
	MaxUploadMB      int `envconfig:"AGRIHUB_IMPORT_MAX_UPLOAD_MB" default:"20"`
	ResponseErrorCap int `envconfig:"AGRIHUB_IMPORT_RESPONSE_ERROR_CAP" default:"100"`
}

type CronConfig struct {
	SessionSweepInterval time.Duration `envconfig:"AGRIHUB_CRON_SESSION_SWEEP_INTERVAL" default:"1h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AGRIHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AGRIHUB_AUTO_MIGRATE" default:"false"`
}
