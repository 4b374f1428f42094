package config

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "STOCKYARD"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "STOCKYARD_APP_ENV"
	EnvDBDSN  = "STOCKYARD_DB_DSN"
	EnvDBHost = "STOCKYARD_DB_HOST"
	EnvDBUser = "STOCKYARD_DB_USER"
	EnvDBName = "STOCKYARD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
