package config

// EnvPrefix is passed to envconfig; individual keys carry the full name in
// their struct tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "CARTQUOTES_APP_ENV"
	EnvPort   = "CARTQUOTES_APP_PORT"

	EnvDBDSN  = "CARTQUOTES_DB_DSN"
	EnvDBHost = "CARTQUOTES_DB_HOST"
	EnvDBUser = "CARTQUOTES_DB_USER"
	EnvDBName = "CARTQUOTES_DB_NAME"

	EnvRedisURL = "CARTQUOTES_REDIS_URL"

	EnvJWTSecret = "CARTQUOTES_JWT_SECRET"
	EnvJWTIssuer = "CARTQUOTES_JWT_ISSUER"

	EnvCommerceBaseURL = "CARTQUOTES_COMMERCE_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
