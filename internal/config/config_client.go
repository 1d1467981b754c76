package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v11"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL or host:port of the storefront server.
	HTTPAddress string `env:"ADDRESS"`
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// ClientConfig is the configuration of the command-line client.
type ClientConfig struct {
	// Adapter contains the server address and request timeout.
	Adapter ClientAdapter `envPrefix:"ADAPTER_"`
	// TokenFile stores the session token between invocations.
	TokenFile string `env:"CLIENT_TOKEN_FILE"`
}

// GetClientConfig builds and validates the client configuration from
// environment variables and the flags in args. It returns the positional
// arguments left after flag parsing (the subcommand and its operands).
//
// Flags:
//
//	-a server address
//	-timeout request timeout
//	-token-file session token file
func GetClientConfig(args []string) (*ClientConfig, []string, error) {
	cfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    "http://localhost:4444",
			RequestTimeout: 10 * time.Second,
		},
		TokenFile: ".storefront-token",
	}

	if err := env.Parse(cfg); err != nil {
		return nil, nil, fmt.Errorf("error getting env configs: %w", err)
	}

	fs := flag.NewFlagSet("storefront-client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Adapter.HTTPAddress, "a", cfg.Adapter.HTTPAddress, "Server address")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "timeout", cfg.Adapter.RequestTimeout, "Request timeout")
	fs.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Session token file")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return cfg, fs.Args(), cfg.validate()
}
