package config

// Config holds runtime configuration for the server and CLI.
type Config struct {
	Port    string
	Logging LoggingConfig
	Metrics MetricsConfig
	Storage StorageConfig
	Scoring ScoringConfig
	HTTP    HTTPConfig
}

// LoggingConfig selects slog level/format and the version attached to records.
type LoggingConfig struct {
	Level   string
	Format  string
	Version string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:    envOrDefault(envPort, defaultPort),
		Logging: loadLogging(),
		Metrics: loadMetrics(),
		Storage: loadStorage(),
		Scoring: loadScoring(),
		HTTP:    loadHTTP(),
	}
}

func loadLogging() LoggingConfig {
	return LoggingConfig{
		Level:   envOrDefault(envLogLevel, defaultLogLevel),
		Format:  envOrDefault(envLogFormat, defaultLogFormat),
		Version: envOrDefault(envAppVersion, defaultVersion),
	}
}
