package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds raw environment values. Unset variables stay zero and do
// not override earlier sources.
type envConfig struct {
	EndpointAddrHTTP   string        `env:"HRMSAUTH_HTTP_ADDR"`
	EndpointAddrGRPC   string        `env:"HRMSAUTH_GRPC_ADDR"`
	ProviderURL        string        `env:"SUPABASE_URL"`
	ProviderAPIKey     string        `env:"SUPABASE_KEY"`
	ProviderServiceKey string        `env:"SUPABASE_SERVICE_KEY"`
	ServiceRoleKey     string        `env:"SUPABASE_SERVICE_ROLE_KEY"`
	ProviderTimeout    time.Duration `env:"HRMSAUTH_PROVIDER_TIMEOUT"`
	JWTSecret          string        `env:"SUPABASE_JWT_SECRET"`
	AllowedOrigins     []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	LogLevel           string        `env:"HRMSAUTH_LOG_LEVEL"`
	LogFormat          string        `env:"HRMSAUTH_LOG_FORMAT"`
	OTelEndpoint       string        `env:"HRMSAUTH_OTEL_ENDPOINT"`
}

// parseEnv overlays environment variables onto config. SUPABASE_SERVICE_KEY
// takes precedence over SUPABASE_SERVICE_ROLE_KEY.
func parseEnv(config *Config) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, raw.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, raw.EndpointAddrGRPC)
	setString(&config.ProviderURL, raw.ProviderURL)
	setString(&config.ProviderAPIKey, raw.ProviderAPIKey)
	setString(&config.ProviderServiceKey, raw.ServiceRoleKey)
	setString(&config.ProviderServiceKey, raw.ProviderServiceKey)
	setString(&config.JWTSecret, raw.JWTSecret)
	setString(&config.LogLevel, raw.LogLevel)
	setString(&config.LogFormat, raw.LogFormat)
	setString(&config.OTelEndpoint, raw.OTelEndpoint)

	if raw.ProviderTimeout > 0 {
		config.ProviderTimeout = raw.ProviderTimeout
	}
	if origins := trimCSV(raw.AllowedOrigins); len(origins) > 0 {
		config.AllowedOrigins = origins
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func trimCSV(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
