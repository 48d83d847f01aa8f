package config

import "time"

const (
	envPort       = "PORT"
	envLogLevel   = "LOG_LEVEL"
	envLogFormat  = "LOG_FORMAT"
	envAppVersion = "APP_VERSION"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	envStoreBackend  = "STORE_BACKEND"
	envStorePath     = "STORE_PATH"
	envStoreKey      = "STORE_KEY"
	envRedisURL      = "REDIS_URL"
	envDatabaseURL   = "DATABASE_URL"
	envStoreTimeout  = "STORE_TIMEOUT"
	envStoreAttempts = "STORE_RETRY_ATTEMPTS"

	envAutoSwitch   = "AUTO_SWITCH_INNINGS"
	envAutoComplete = "AUTO_COMPLETE_MATCH"
	envDefaultOvers = "DEFAULT_OVERS"

	envCorsOrigins     = "CORS_ALLOW_ORIGINS"
	envRateLimitOn     = "RATE_LIMIT_ENABLED"
	envRateLimitReqs   = "RATE_LIMIT_REQUESTS"
	envRateLimitWindow = "RATE_LIMIT_WINDOW"
	envAdminToken      = "ADMIN_TOKEN"
	envMCPEnabled      = "MCP_ENABLED"

	defaultPort      = "4000"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultVersion   = "dev"

	defaultMetricsPort = "9090"
	defaultServiceName = "cricket-tournament-service"

	defaultStoreBackend  = BackendFile
	defaultStorePath     = "data"
	defaultStoreKey      = "cricket_tournament_data"
	defaultRedisURL      = "redis://localhost:6379/0"
	defaultStoreTimeout  = 5 * Duration(time.Second)
	defaultStoreAttempts = 3

	defaultDefaultOvers = 5

	defaultCorsOrigins     = "http://localhost:3000,http://localhost:5173"
	defaultRateLimitOn     = true
	defaultRateLimitReqs   = 120
	defaultRateLimitWindow = 60 * Duration(time.Second)
	defaultMCPEnabled      = true
)
