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
//	-a string   HTTP bind address (e.g., ":8000")
//	-g string   gRPC bind address (e.g., ":50051")
//	-u string   identity provider base URL
//	-k string   identity provider public API key
//	-s string   identity provider service (admin) key
//	-t int      provider call timeout, seconds
//	-j string   provider JWT secret for local token verification
//	-l string   log level
//
// Unknown flags are filtered out first so the JSON loader's -c/-config does
// not collide with these.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-u", "-k", "-s", "-t", "-j", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.ProviderURL, "u", config.ProviderURL, "identity provider base URL")
	fs.StringVar(&config.ProviderAPIKey, "k", config.ProviderAPIKey, "identity provider API key")
	fs.StringVar(&config.ProviderServiceKey, "s", config.ProviderServiceKey, "identity provider service key")
	fs.StringVar(&config.JWTSecret, "j", config.JWTSecret, "identity provider JWT secret")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	timeout := fs.Int("t", int(config.ProviderTimeout.Seconds()), "provider timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.ProviderTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
