package config

import (
	"strings"
	"time"
)

// HTTPConfig controls the public API surface.
type HTTPConfig struct {
	CorsOrigins     []string
	RateLimit       bool
	RateLimitReqs   int
	RateLimitWindow time.Duration
	AdminToken      string
	MCPEnabled      bool
}

func loadHTTP() HTTPConfig {
	return HTTPConfig{
		CorsOrigins:     splitList(envOrDefault(envCorsOrigins, defaultCorsOrigins)),
		RateLimit:       boolEnvOrDefault(envRateLimitOn, defaultRateLimitOn),
		RateLimitReqs:   intEnvOrDefault(envRateLimitReqs, defaultRateLimitReqs),
		RateLimitWindow: durationEnvOrDefault(envRateLimitWindow, defaultRateLimitWindow),
		AdminToken:      envOrDefault(envAdminToken, ""),
		MCPEnabled:      boolEnvOrDefault(envMCPEnabled, defaultMCPEnabled),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
