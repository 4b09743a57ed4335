package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App             AppConfig
	DB              DBConfig
	Redis           RedisConfig
	Auth            AuthConfig
	Google          GoogleConfig
	S3              S3Config
	Media           MediaConfig
	UploadRateLimit UploadRateLimitConfig
	FeatureFlags    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Media.MaxUploadMB > MaxUploadMBLimit {
		return nil, fmt.Errorf("%s must be at most %d", EnvMaxUploadMB, MaxUploadMBLimit)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env           string   `envconfig:"CROP_APP_ENV" required:"true"`
	Port          string   `envconfig:"CROP_APP_PORT" required:"true"`
	LogLevel      string   `envconfig:"CROP_LOG_LEVEL" default:"info"`
	LogWarnStack  bool     `envconfig:"CROP_LOG_WARN_STACK" default:"false"`
	DefaultLocale string   `envconfig:"CROP_APP_DEFAULT_LOCALE" default:"es"`
	FrontendURLs  []string `envconfig:"CROP_FRONTEND_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CROP_DB_DSN"`
	Driver string `envconfig:"CROP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CROP_DB_HOST"`
	LegacyPort     int    `envconfig:"CROP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CROP_DB_USER"`
	LegacyPassword string `envconfig:"CROP_DB_PASSWORD"`
	LegacyName     string `envconfig:"CROP_DB_NAME"`
	LegacySSLMode  string `envconfig:"CROP_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"CROP_DB_SQLITE_PATH" default:"file:crop.db?_foreign_keys=on"`

	MaxOpenConns    int           `envconfig:"CROP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CROP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CROP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CROP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. An empty URL disables the upload rate limiter.
type RedisConfig struct {
	URL          string        `envconfig:"CROP_REDIS_URL"`
	Address      string        `envconfig:"CROP_REDIS_ADDR"`
	Password     string        `envconfig:"CROP_REDIS_PASSWORD"`
	DB           int           `envconfig:"CROP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CROP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CROP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CROP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CROP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CROP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// AuthConfig holds what is needed to verify sessions issued by the identity provider.
type AuthConfig struct {
	Secret     string `envconfig:"CROP_AUTH_SECRET" required:"true"`
	Issuer     string `envconfig:"CROP_AUTH_ISSUER" default:"crop"`
	CookieName string `envconfig:"CROP_AUTH_COOKIE_NAME" default:"crop.session_token"`
}

type GoogleConfig struct {
	ClientID     string `envconfig:"CROP_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"CROP_GOOGLE_CLIENT_SECRET"`
}

type S3Config struct {
	Endpoint        string        `envconfig:"CROP_S3_ENDPOINT"`
	Region          string        `envconfig:"CROP_S3_REGION" default:"auto"`
	AccessKeyID     string        `envconfig:"CROP_S3_ACCESS_KEY_ID"`
	SecretAccessKey string        `envconfig:"CROP_S3_SECRET_ACCESS_KEY"`
	BucketName      string        `envconfig:"CROP_S3_BUCKET_NAME" default:"crop-media"`
	PublicURL       string        `envconfig:"CROP_S3_PUBLIC_URL"`
	ForcePathStyle  bool          `envconfig:"CROP_S3_FORCE_PATH_STYLE" default:"false"`
	SignedURLTTL    time.Duration `envconfig:"CROP_S3_SIGNED_URL_TTL" default:"1h"`
}

// MaxUploadMBLimit keeps every stored size within a 32-bit GraphQL Int.
const MaxUploadMBLimit = 2047

type MediaConfig struct {
	MaxUploadMB int `envconfig:"CROP_MAX_UPLOAD_MB" default:"100"`
}

// MaxUploadBytes returns the configured ceiling in bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 100 << 20
	}
	return int64(m.MaxUploadMB) << 20
}

type UploadRateLimitConfig struct {
	Window    time.Duration `envconfig:"CROP_UPLOAD_RATE_LIMIT_WINDOW" default:"1m"`
	UserLimit int           `envconfig:"CROP_UPLOAD_RATE_LIMIT_USER_LIMIT" default:"30"`
	IPLimit   int           `envconfig:"CROP_UPLOAD_RATE_LIMIT_IP_LIMIT" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CROP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CROP_AUTO_MIGRATE" default:"false"`
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
