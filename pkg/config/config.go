package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/slony-exporter/pkg/validation"
)

// Environment variables holding the process settings
const (
	EnvListenAddr        = "LISTEN_ADDR"
	EnvLogLevel          = "LOG_LEVEL"
	EnvSelfMetrics       = "EXPORTER_SELF_METRICS"
	EnvScrapeCoalesce    = "SCRAPE_COALESCE"
	EnvMinScrapeInterval = "MIN_SCRAPE_INTERVAL"
	EnvQueryTimeout      = "QUERY_TIMEOUT"
	EnvShutdownTimeout   = "SHUTDOWN_TIMEOUT"
)

// DefaultListenAddr is the exporter's single local endpoint
const DefaultListenAddr = "127.0.0.1:3000"

// Config holds the process settings of the exporter
type Config struct {
	ListenAddr string `yaml:"listen_addr" validate:"required"`
	LogLevel   string `yaml:"log_level"`

	// SelfMetrics adds exporter and Go runtime metrics to every scrape
	SelfMetrics bool `yaml:"self_metrics"`

	// ScrapeCoalesce lets concurrent scrapes share one in-flight fetch
	ScrapeCoalesce bool `yaml:"scrape_coalesce"`

	// MinScrapeInterval skips the fetch for scrapes arriving sooner than
	// this after the last successful one. Zero fetches on every scrape.
	MinScrapeInterval time.Duration `yaml:"min_scrape_interval"`

	// QueryTimeout bounds a whole fetch. Zero means no limit.
	QueryTimeout time.Duration `yaml:"query_timeout"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		ListenAddr:      DefaultListenAddr,
		LogLevel:        "info",
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load builds the process settings. Values come from the defaults, then the
// YAML file at path (if path is not empty), then the environment.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	c.ListenAddr = validation.DefaultOr(getenv(EnvListenAddr), c.ListenAddr)
	c.LogLevel = validation.DefaultOr(getenv(EnvLogLevel), c.LogLevel)

	cv := validation.NewConfigValidator("env")
	cv.Custom(EnvSelfMetrics, boolEnv(getenv, EnvSelfMetrics, &c.SelfMetrics))
	cv.Custom(EnvScrapeCoalesce, boolEnv(getenv, EnvScrapeCoalesce, &c.ScrapeCoalesce))
	cv.Custom(EnvMinScrapeInterval, durationEnv(getenv, EnvMinScrapeInterval, &c.MinScrapeInterval))
	cv.Custom(EnvQueryTimeout, durationEnv(getenv, EnvQueryTimeout, &c.QueryTimeout))
	cv.Custom(EnvShutdownTimeout, durationEnv(getenv, EnvShutdownTimeout, &c.ShutdownTimeout))
	return cv.Validate()
}

// logLevels are the names logging.ParseLevel understands
var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks the settings once all sources have been applied
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	err := validation.NewConfigValidator("config").
		Custom("ListenAddr", func() error { return checkListenAddr(c.ListenAddr) }).
		OneOf("LogLevel", strings.ToLower(c.LogLevel), logLevels).
		NonNegativeDuration("MinScrapeInterval", c.MinScrapeInterval).
		NonNegativeDuration("QueryTimeout", c.QueryTimeout).
		NonNegativeDuration("ShutdownTimeout", c.ShutdownTimeout).
		Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// checkListenAddr accepts anything net.Listen("tcp", addr) does: an optional
// host (bracketed for IPv6) and a numeric port, 0 meaning any free port
func checkListenAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%q is not a host:port address", addr)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("port %q must be a number between 0 and 65535", port)
	}
	return nil
}

func boolEnv(getenv func(string) string, key string, dst *bool) func() error {
	return func() error {
		raw := getenv(key)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", raw)
		}
		*dst = v
		return nil
	}
}

func durationEnv(getenv func(string) string, key string, dst *time.Duration) func() error {
	return func() error {
		raw := getenv(key)
		if raw == "" {
			return nil
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%q is not a duration", raw)
		}
		*dst = v
		return nil
	}
}
