// Package main provides the CLI entrypoint for the property lookup service.
// It wires subcommands (serve, lookup, batch, jwt), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"proplookup/internal/config"
	"proplookup/internal/lookup"
	"proplookup/pkg/logger"
	"proplookup/pkg/metrics"
	"proplookup/pkg/phonevalidation"
	"proplookup/pkg/skiptrace/batchdata"
	"proplookup/pkg/tracing"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// getLookupService validates the provider settings and builds the lookup
// pipeline with its provider clients. Provider metrics are registered with the
// default Prometheus registry.
func getLookupService(ctx context.Context, cfg *config.Config) lookup.Service {
	if err := cfg.Validate(); err != nil {
		logger.Fatal(ctx, "invalid configuration", zap.Error(err))
	}

	mp, err := metrics.NewMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
	}
	m, err := metrics.New(mp)
	if err != nil {
		logger.Fatal(ctx, "could not create metrics", zap.Error(err))
	}
	if cfg.Tracing.Enabled {
		otel.SetTracerProvider(tracing.NewTracerProvider(ctx))
	}

	skipTrace, err := batchdata.New(batchdata.Options{
		BaseURL: cfg.SkipTrace.BaseURL,
		Token:   cfg.SkipTrace.Token,
		Timeout: cfg.SkipTrace.Timeout,
		Metrics: m,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create skip-trace client", zap.Error(err))
	}

	validator, err := phonevalidation.New(phonevalidation.Options{
		Provider:    cfg.PhoneValidation.Name,
		BaseURL:     cfg.PhoneValidation.BaseURL,
		APIKey:      cfg.PhoneValidation.APIKey,
		CountryCode: cfg.PhoneValidation.CountryCode,
		Timeout:     cfg.PhoneValidation.Timeout,
		Metrics:     m,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create phone validator", zap.Error(err))
	}

	return lookup.New(skipTrace, validator, m, lookup.NewOptions(cfg))
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "proplookup",
		Short: "Finds property owners and validates their phone numbers",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	configPath := flags.String("c", "config.yml", "The config file path")
	_ = flags.Parse(configArgs(os.Args[1:]))

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal("could not setup logger", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		lookupCommand(cfg),
		batchCommand(cfg),
		JWTCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}

// configArgs picks the -c/--config flag out of args so the standard flag
// package can read it ahead of cobra, which owns the other flags.
func configArgs(args []string) []string {
	for i, a := range args {
		if (a == "-c" || a == "--config") && i+1 < len(args) {
			return []string{"-c", args[i+1]}
		}
		for _, prefix := range []string{"-c=", "--config="} {
			if path, ok := strings.CutPrefix(a, prefix); ok {
				return []string{"-c", path}
			}
		}
	}

	return nil
}
