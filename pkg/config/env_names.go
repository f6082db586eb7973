package config

const (
	EnvPrefix = "TRADEFLOW"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "TRADEFLOW_APP_ENV"
	EnvPort     = "TRADEFLOW_APP_PORT"
	EnvDBDSN    = "TRADEFLOW_DB_DSN"
	EnvDBHost   = "TRADEFLOW_DB_HOST"
	EnvDBUser   = "TRADEFLOW_DB_USER"
	EnvDBName   = "TRADEFLOW_DB_NAME"
	EnvRedisURL = "TRADEFLOW_REDIS_URL"

	EnvTaxDefaultRate = "TRADEFLOW_TAX_DEFAULT_SALES_TAX_RATE"
	EnvTaxDefaultMode = "TRADEFLOW_TAX_DEFAULT_MODE"
	EnvAIBaseURL      = "TRADEFLOW_AI_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
