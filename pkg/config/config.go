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
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Shopping     ShoppingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if cfg.App.IsProd() && cfg.DB.IsSQLite() {
		return nil, fmt.Errorf("sqlite driver is not allowed when %s=%s", EnvAppEnv, AppEnvProd)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEALPLANNER_APP_ENV" required:"true"`
	Port         string `envconfig:"MEALPLANNER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEALPLANNER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEALPLANNER_LOG_WARN_STACK" default:"false"`

	// CORSOrigins is a comma separated allow list; empty means the local
	// frontend only.
	CORSOrigins []string `envconfig:"MEALPLANNER_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEALPLANNER_DB_DSN"`
	Driver string `envconfig:"MEALPLANNER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEALPLANNER_DB_HOST"`
	LegacyPort     int    `envconfig:"MEALPLANNER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEALPLANNER_DB_USER"`
	LegacyPassword string `envconfig:"MEALPLANNER_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEALPLANNER_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEALPLANNER_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"MEALPLANNER_SQLITE_PATH" default:"mealplanner.db"`

	MaxOpenConns    int           `envconfig:"MEALPLANNER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEALPLANNER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEALPLANNER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEALPLANNER_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"MEALPLANNER_DB_SLOW_QUERY" default:"250ms"`
}

// IsSQLite reports whether the datasource is a local SQLite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

// RedisConfig is optional: an empty URL and address disables idempotency
// replay and the completion lock.
type RedisConfig struct {
	URL          string        `envconfig:"MEALPLANNER_REDIS_URL"`
	Address      string        `envconfig:"MEALPLANNER_REDIS_ADDR"`
	Password     string        `envconfig:"MEALPLANNER_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEALPLANNER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEALPLANNER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEALPLANNER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEALPLANNER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEALPLANNER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEALPLANNER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"MEALPLANNER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MEALPLANNER_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MEALPLANNER_JWT_EXPIRATION_MINUTES" default:"60"`
	// Leeway absorbs clock skew with the service that issues tokens.
	Leeway time.Duration `envconfig:"MEALPLANNER_JWT_LEEWAY" default:"30s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MEALPLANNER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MEALPLANNER_AUTO_MIGRATE" default:"false"`
}

type ShoppingConfig struct {
	CompletionLockTTL time.Duration `envconfig:"MEALPLANNER_SHOPPING_COMPLETION_LOCK_TTL" default:"30s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.IsSQLite() {
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
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
