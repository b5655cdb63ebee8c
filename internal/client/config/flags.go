package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the hrmsauth gRPC endpoint
//	-t int      request timeout (in seconds)
//	-u string   identity provider base URL
//	-k string   identity provider public API key
//	-s string   identity provider service key
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-u", "-k", "-s"})

	fs := flag.NewFlagSet("authctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.ProviderURL, "u", cfg.ProviderURL, "identity provider url")
	fs.StringVar(&cfg.ProviderAPIKey, "k", cfg.ProviderAPIKey, "identity provider api key")
	fs.StringVar(&cfg.ProviderServiceKey, "s", cfg.ProviderServiceKey, "identity provider service key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" && *timeout > 0 {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
