package config

const EnvPrefix = "CROP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "CROP_APP_ENV"
	EnvPort          = "CROP_APP_PORT"
	EnvDefaultLocale = "CROP_APP_DEFAULT_LOCALE"
	EnvFrontendURL   = "CROP_FRONTEND_URL"

	EnvDBDSN     = "CROP_DB_DSN"
	EnvDBHost    = "CROP_DB_HOST"
	EnvDBUser    = "CROP_DB_USER"
	EnvDBName    = "CROP_DB_NAME"
	EnvDBPort    = "CROP_DB_PORT"
	EnvDBPass    = "CROP_DB_PASSWORD"
	EnvUseSQLite = "CROP_USE_SQLITE"

	EnvRedisURL = "CROP_REDIS_URL"

	EnvAuthSecret = "CROP_AUTH_SECRET"
	EnvAuthIssuer = "CROP_AUTH_ISSUER"

	EnvS3Endpoint  = "CROP_S3_ENDPOINT"
	EnvS3Region    = "CROP_S3_REGION"
	EnvS3Bucket    = "CROP_S3_BUCKET_NAME"
	EnvS3PublicURL = "CROP_S3_PUBLIC_URL"
	EnvS3PathStyle = "CROP_S3_FORCE_PATH_STYLE"

	EnvMaxUploadMB = "CROP_MAX_UPLOAD_MB"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
