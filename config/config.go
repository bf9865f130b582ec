// Package config loads the application configuration from a YAML or JSON
// file with HORIZON_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/horizon/core/factory"
	"github.com/kilianp07/horizon/core/scheduler"
	"github.com/kilianp07/horizon/infra/monitoring"
	"github.com/kilianp07/horizon/infra/mqtt"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: HORIZON_SCHEDULER__MAX_SCHEDULES=20.
const EnvPrefix = "HORIZON_"

type Config struct {
	Simulation SimulationConfig  `json:"simulation"`
	Scheduler  SchedulerConfig   `json:"scheduler"`
	Logging    LoggingConfig     `json:"logging"`
	Metrics    MetricsConfig     `json:"metrics"`
	Output     OutputConfig      `json:"output"`
	Publish    mqtt.Config       `json:"publish"`
	Monitoring monitoring.Config `json:"monitoring"`
	API        APIConfig         `json:"api"`
}

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
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
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

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Simulation.SetDefaults()
	c.Scheduler.SetDefaults()
	c.Logging.SetDefaults()
	c.Output.SetDefaults()
	c.API.SetDefaults()
	if c.Publish.Enabled() {
		c.Publish.SetDefaults()
	}
}

// Validate checks every section and joins the errors.
func (c Config) Validate() error {
	return errors.Join(
		c.Simulation.Validate(),
		c.Scheduler.Validate(),
		c.Logging.RunStore.Validate(),
		c.Metrics.Validate(),
		c.Publish.Validate(),
		c.Monitoring.Validate(),
	)
}

// SchedulerParams merges the simulation and scheduler sections.
func (c Config) SchedulerParams() (scheduler.Params, error) {
	mode, err := scheduler.ParseConsoleMode(c.Scheduler.ConsoleLogging)
	if err != nil {
		return scheduler.Params{}, err
	}
	p := scheduler.Params{
		Start:        c.Simulation.StartSeconds,
		End:          c.Simulation.EndSeconds,
		Step:         c.Simulation.StepSeconds,
		MaxSchedules: c.Scheduler.MaxSchedules,
		CropTo:       c.Scheduler.CropTo,
		Workers:      c.Scheduler.Workers,
		Console:      mode,
		HashTracking: c.Scheduler.HashTracking,
	}
	p.SetDefaults()
	return p, p.Validate()
}

// MetricsConfig lists the metric sinks and the Prometheus scrape port.
type MetricsConfig struct {
	Sinks          []factory.ComponentConfig `json:"sinks"`
	PrometheusPort string                    `json:"prometheus_port"`
}

// Validate rejects sinks without a type.
func (c MetricsConfig) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}

// OutputConfig selects where audit artifacts and exports are written.
type OutputConfig struct {
	Dir string `json:"dir"`
	// CSV and JSON toggle the state and schedule exports.
	CSV  bool `json:"csv"`
	JSON bool `json:"json"`
	// Chart writes an HTML chart of the per-step search progress.
	Chart bool `json:"chart"`
}

func (c *OutputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "output"
	}
}

// APIConfig configures the HTTP server started by the serve command.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on /api routes.
	Token string `json:"token"`
}

func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
