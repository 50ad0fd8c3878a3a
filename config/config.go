package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pkozlov/blackoutcal/core/factory"
	"github.com/pkozlov/blackoutcal/infra/gcal"
	"github.com/pkozlov/blackoutcal/infra/source"
)

// Config is the process-wide configuration, constructed once at startup and
// threaded into every component by parameter.
type Config struct {
	// Timezone the published schedule is expressed in.
	Timezone string `json:"timezone"`
	// Groups is the ordered set of consumer group identifiers to track.
	Groups []string `json:"groups"`
	// OutputDir holds the state files and exported calendars.
	OutputDir string `json:"output_dir"`
	// Calendars maps group id to the remote calendar identifier it syncs to.
	Calendars map[string]string `json:"calendars"`

	Source  source.Config `json:"source"`
	Google  gcal.Config   `json:"google"`
	Metrics MetricsConfig `json:"metrics"`
	Sync    SyncConfig    `json:"sync"`
	Serve   ServeConfig   `json:"serve"`
}

// MetricsConfig selects the telemetry sinks.
type MetricsConfig struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr is the listen address of the /metrics endpoint in
	// serve mode, e.g. ":9090". Empty disables the endpoint.
	PrometheusAddr string `json:"prometheus_addr"`
}

// SyncConfig tunes the reconciler.
type SyncConfig struct {
	// TimeoutSeconds bounds each individual remote calendar call.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// ServeConfig configures the daemon mode.
type ServeConfig struct {
	// Cron is the run schedule in standard cron syntax.
	Cron string `json:"cron"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if len(c.Groups) == 0 {
		c.Groups = []string{"1.1", "1.2", "2.1", "2.2", "3.1", "3.2", "4.1", "4.2", "5.1", "5.2", "6.1", "6.2"}
	}
	if c.OutputDir == "" {
		c.OutputDir = "schedules"
	}
	if c.Sync.TimeoutSeconds <= 0 {
		c.Sync.TimeoutSeconds = 30
	}
	if c.Serve.Cron == "" {
		c.Serve.Cron = "*/30 * * * *"
	}
	c.Source.SetDefaults()
	c.Google.SetDefaults()
}

// Validate checks mandatory fields.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	for _, g := range c.Groups {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("empty group id in groups list")
		}
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured timezone. Validate must have succeeded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads the configuration file (YAML or JSON by extension) and applies
// environment overrides with the B_ prefix (B_SOURCE__URL overrides
// source.url).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("B_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "b_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
