// Command callprobe dials a gRPC endpoint with credential metadata
// attached and reports whether its health check serves. It exercises
// the full client stack: env config, telemetry, provider selection,
// and authenticated dial.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/callauth"
	"github.com/louisbranch/callauth/credentials"
	platformcmd "github.com/louisbranch/callauth/internal/platform/cmd"
	"github.com/louisbranch/callauth/internal/platform/config"
	platformgrpc "github.com/louisbranch/callauth/internal/platform/grpc"
)

type probeConfig struct {
	Target      string        `env:"CALLAUTH_TARGET" envDefault:"localhost:50051"`
	AuthMode    string        `env:"CALLAUTH_AUTH_MODE" envDefault:"none"`
	Token       string        `env:"CALLAUTH_TOKEN"`
	JWTKey      string        `env:"CALLAUTH_JWT_KEY"`
	JWTIssuer   string        `env:"CALLAUTH_JWT_ISSUER" envDefault:"callprobe"`
	DialTimeout time.Duration `env:"CALLAUTH_DIAL_TIMEOUT" envDefault:"5s"`
}

func main() {
	var cfg probeConfig
	fs := flag.NewFlagSet("callprobe", flag.ExitOnError)
	target := fs.String("target", "", "gRPC endpoint to probe (overrides CALLAUTH_TARGET)")
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, os.Args[1:]); err != nil {
		config.Exitf("callprobe: %v", err)
	}
	if *target != "" {
		cfg.Target = *target
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		config.Exitf("callprobe: %v", err)
	}

	ctx := context.Background()
	err = platformcmd.RunWithTelemetry(ctx, "callprobe", func(ctx context.Context) error {
		return probe(ctx, cfg, provider)
	})
	if err != nil {
		config.Exitf("callprobe: %v", err)
	}
}

// buildProvider selects the credential source for the probe.
func buildProvider(cfg probeConfig) (callauth.Provider, error) {
	switch cfg.AuthMode {
	case "none":
		return credentials.Anonymous(), nil
	case "bearer":
		if cfg.Token == "" {
			return nil, fmt.Errorf("CALLAUTH_TOKEN is required for bearer auth")
		}
		return credentials.Bearer(cfg.Token), nil
	case "jwt":
		if cfg.JWTKey == "" {
			return nil, fmt.Errorf("CALLAUTH_JWT_KEY is required for jwt auth")
		}
		return credentials.JWT(credentials.JWTConfig{
			Issuer: cfg.JWTIssuer,
			Key:    []byte(cfg.JWTKey),
		})
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

func probe(ctx context.Context, cfg probeConfig, provider callauth.Provider) error {
	log.Printf("probing %s (auth mode %s)", cfg.Target, cfg.AuthMode)

	conn, err := platformgrpc.DialWithHealth(
		ctx, nil, cfg.Target, cfg.DialTimeout, log.Printf,
		platformgrpc.ClientOptions(provider)...,
	)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("%s is serving", cfg.Target)
	return nil
}
