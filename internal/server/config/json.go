package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/hrmsauth/internal/flagx"
	"github.com/dmitrijs2005/hrmsauth/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations use
// timex.Duration so both "10s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC   string         `json:"endpoint_addr_grpc"`
	ProviderURL        string         `json:"provider_url"`
	ProviderAPIKey     string         `json:"provider_api_key"`
	ProviderServiceKey string         `json:"provider_service_key"`
	ProviderTimeout    timex.Duration `json:"provider_timeout"`
	JWTSecret          string         `json:"jwt_secret"`
	AllowedOrigins     []string       `json:"allowed_origins"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`
	OTelEndpoint       string         `json:"otel_endpoint"`
}

// parseJson loads the file named by -c/-config in args, if any, and copies
// every non-empty value into config. Unreadable or invalid files panic.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.ProviderURL, c.ProviderURL)
	setString(&config.ProviderAPIKey, c.ProviderAPIKey)
	setString(&config.ProviderServiceKey, c.ProviderServiceKey)
	setString(&config.JWTSecret, c.JWTSecret)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.OTelEndpoint, c.OTelEndpoint)

	if c.ProviderTimeout.Duration > 0 {
		config.ProviderTimeout = c.ProviderTimeout.Duration
	}
	if origins := trimCSV(c.AllowedOrigins); len(origins) > 0 {
		config.AllowedOrigins = origins
	}
}
