package config

// EnvPrefix is handed to envconfig; every field carries an explicit name so
// the prefix only matters for fields without one.
const EnvPrefix = "MEALPLANNER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "MEALPLANNER_APP_ENV"
	EnvPort     = "MEALPLANNER_APP_PORT"
	EnvLogLevel = "MEALPLANNER_LOG_LEVEL"
	EnvCORS     = "MEALPLANNER_CORS_ORIGINS"

	EnvDBDSN     = "MEALPLANNER_DB_DSN"
	EnvDBDriver  = "MEALPLANNER_DB_DRIVER"
	EnvDBHost    = "MEALPLANNER_DB_HOST"
	EnvDBUser    = "MEALPLANNER_DB_USER"
	EnvDBName    = "MEALPLANNER_DB_NAME"
	EnvUseSQLite = "MEALPLANNER_USE_SQLITE"

	EnvRedisURL = "MEALPLANNER_REDIS_URL"

	EnvJWTSecret = "MEALPLANNER_JWT_SECRET"
	EnvJWTIssuer = "MEALPLANNER_JWT_ISSUER"

	EnvCompletionLockTTL = "MEALPLANNER_SHOPPING_COMPLETION_LOCK_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
