package config

import "time"

// Config holds runtime settings for authctl.
//
// Fields:
//   - ServerEndpointAddr: host:port of the hrmsauth gRPC endpoint.
//   - RequestTimeout: bound on each RPC.
//   - ProviderURL / ProviderAPIKey / ProviderServiceKey / ProviderTimeout:
//     direct identity provider access, used only by confirm-pending.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	ProviderURL        string
	ProviderAPIKey     string
	ProviderServiceKey string
	ProviderTimeout    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 30 * time.Second
	c.ProviderTimeout = 10 * time.Second
}

// LoadConfig constructs a Config from args (without the program name and
// command). Later sources take precedence over earlier ones.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
