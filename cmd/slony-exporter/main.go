// Command slony-exporter serves the replication state of one Slony-I node as
// Prometheus metrics. Every request to the listener queries the node afresh.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dd0wney/slony-exporter/pkg/api"
	"github.com/dd0wney/slony-exporter/pkg/config"
	"github.com/dd0wney/slony-exporter/pkg/logging"
	"github.com/dd0wney/slony-exporter/pkg/metrics"
	"github.com/dd0wney/slony-exporter/pkg/server"
	"github.com/dd0wney/slony-exporter/pkg/slony"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Getenv, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "slony-exporter: %v\n", err)
		os.Exit(1)
	}
}

// options are the command line overrides; flags win over file and environment
type options struct {
	configPath string
	listenAddr string
	logLevel   string
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("slony-exporter", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{set: map[string]bool{}}
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML settings file")
	fs.StringVar(&opts.listenAddr, "listen", config.DefaultListenAddr, "Address to serve metrics on")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig applies file, environment and flags in that order
func loadConfig(opts *options, getenv func(string) string) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, getenv)
	if err != nil {
		return nil, err
	}
	if opts.set["listen"] {
		cfg.ListenAddr = opts.listenAddr
	}
	if opts.set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout io.Writer) error {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts, getenv)
	if err != nil {
		return err
	}

	logger := logging.NewJSONLogger(stdout, logging.ParseLevel(cfg.LogLevel))

	registry := metrics.NewRegistry()
	var self *metrics.SelfMetrics
	if cfg.SelfMetrics {
		self = metrics.NewSelfMetrics(time.Now())
	}

	fetcher := slony.NewFetcher(
		slony.WithEnv(getenv),
		slony.WithLogger(logger.With(logging.Component("slony"))),
		slony.WithQueryTimeout(cfg.QueryTimeout),
	)

	handler := api.NewServer(fetcher, registry, self, logger, api.Options{
		Coalesce:    cfg.ScrapeCoalesce,
		MinInterval: cfg.MinScrapeInterval,
	}).Handler()

	gs := server.NewGracefulServer(cfg.ListenAddr, handler, logger, cfg.ShutdownTimeout)

	// Only the log level can change without a restart; the listener and
	// the scrape guards are fixed once serving.
	gs.SetConfigReloadFunc(func() error {
		next, err := loadConfig(opts, getenv)
		if err != nil {
			return err
		}
		logger.SetLevel(logging.ParseLevel(next.LogLevel))
		logger.Info("log level updated", logging.String("level", logger.GetLevel().String()))
		return nil
	})

	logger.Info("slony exporter starting",
		logging.String("listen_addr", cfg.ListenAddr),
		logging.Bool("self_metrics", cfg.SelfMetrics),
		logging.Bool("scrape_coalesce", cfg.ScrapeCoalesce),
		logging.Duration("min_scrape_interval", cfg.MinScrapeInterval),
		logging.Duration("query_timeout", cfg.QueryTimeout),
	)

	return gs.Run(ctx)
}
