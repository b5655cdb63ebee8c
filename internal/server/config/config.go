// Package config handles configuration for the auth server, including
// defaults, JSON overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds runtime settings for the auth server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the two transports.
//   - ProviderURL: base URL of the identity provider (GoTrue), without /auth/v1.
//   - ProviderAPIKey: public key used for sign-in, signup and refresh.
//   - ProviderServiceKey: elevated key for admin user listing and confirmation.
//     Optional; admin operations fail closed when it is empty.
//   - ProviderTimeout: bound applied to every single provider call.
//   - JWTSecret: provider JWT secret. When set, access tokens are verified
//     locally instead of asking the provider.
//   - AllowedOrigins: CORS allow-list for the HTTP transport.
//   - LogLevel / LogFormat: slog level name and handler ("json" or "text").
//   - OTelEndpoint: OTLP/HTTP traces endpoint. Tracing is off when empty.
type Config struct {
	EndpointAddrHTTP   string
	EndpointAddrGRPC   string
	ProviderURL        string
	ProviderAPIKey     string
	ProviderServiceKey string
	ProviderTimeout    time.Duration
	JWTSecret          string
	AllowedOrigins     []string
	LogLevel           string
	LogFormat          string
	OTelEndpoint       string
}

// LoadDefaults populates Config with development defaults. Provider URL and
// keys have no defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.EndpointAddrGRPC = ":50051"
	c.ProviderTimeout = 10 * time.Second
	c.AllowedOrigins = []string{"http://localhost:5173"}
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.ProviderURL == "" {
		errs = append(errs, errors.New("provider url is required"))
	}
	if c.ProviderAPIKey == "" {
		errs = append(errs, errors.New("provider api key is required"))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("provider timeout must be positive"))
	}
	for _, o := range c.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			errs = append(errs, fmt.Errorf("allowed origin %q must be * or start with http:// or https://", o))
		}
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseEnv(cfg)
	parseFlags(cfg, os.Args[1:])
	return cfg
}
