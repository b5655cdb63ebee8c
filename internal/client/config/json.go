package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/hrmsauth/internal/flagx"
	"github.com/dmitrijs2005/hrmsauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	ProviderURL        string         `json:"provider_url"`
	ProviderAPIKey     string         `json:"provider_api_key"`
	ProviderServiceKey string         `json:"provider_service_key"`
	ProviderTimeout    timex.Duration `json:"provider_timeout"`
}

// parseJson overlays Config with the file named by -c/-config, if any.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ProviderURL != "" {
		cfg.ProviderURL = jc.ProviderURL
	}
	if jc.ProviderAPIKey != "" {
		cfg.ProviderAPIKey = jc.ProviderAPIKey
	}
	if jc.ProviderServiceKey != "" {
		cfg.ProviderServiceKey = jc.ProviderServiceKey
	}
	if jc.ProviderTimeout.Duration > 0 {
		cfg.ProviderTimeout = jc.ProviderTimeout.Duration
	}
}
