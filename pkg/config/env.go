package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "SUPPCART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
