package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	ServerEndpointAddr string        `env:"HRMSAUTH_SERVER_ADDR"`
	RequestTimeout     time.Duration `env:"HRMSAUTH_REQUEST_TIMEOUT"`
	ProviderURL        string        `env:"SUPABASE_URL"`
	ProviderAPIKey     string        `env:"SUPABASE_KEY"`
	ServiceKey         string        `env:"SUPABASE_SERVICE_KEY"`
	ServiceRoleKey     string        `env:"SUPABASE_SERVICE_ROLE_KEY"`
}

// parseEnv overlays non-empty environment values. Panics on malformed
// durations.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = ec.ServerEndpointAddr
	}
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.ProviderURL != "" {
		cfg.ProviderURL = ec.ProviderURL
	}
	if ec.ProviderAPIKey != "" {
		cfg.ProviderAPIKey = ec.ProviderAPIKey
	}
	switch {
	case ec.ServiceKey != "":
		cfg.ProviderServiceKey = ec.ServiceKey
	case ec.ServiceRoleKey != "":
		cfg.ProviderServiceKey = ec.ServiceRoleKey
	}
}
