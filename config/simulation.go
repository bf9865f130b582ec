package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/kilianp07/horizon/core/factory"
	"github.com/kilianp07/horizon/core/runlog"
	"github.com/kilianp07/horizon/core/scheduler"
)

// SimulationConfig bounds the simulated horizon.
type SimulationConfig struct {
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	StepSeconds  float64 `json:"step_seconds"`
	ScenarioName string  `json:"scenario_name"`
	// Scenario is the path of the scenario file.
	Scenario string `json:"scenario"`
}

func (c *SimulationConfig) SetDefaults() {
	if c.StartSeconds == 0 && c.EndSeconds == 0 {
		c.EndSeconds = 60
	}
	if c.StepSeconds == 0 {
		c.StepSeconds = 12
	}
}

func (c SimulationConfig) Validate() error {
	var errs []error
	if c.StartSeconds >= c.EndSeconds {
		errs = append(errs, fmt.Errorf("simulation: start_seconds must be before end_seconds"))
	}
	if c.StepSeconds <= 0 {
		errs = append(errs, fmt.Errorf("simulation: step_seconds must be positive"))
	}
	return errors.Join(errs...)
}

// SchedulerConfig tunes the search.
type SchedulerConfig struct {
	MaxSchedules   int                     `json:"max_schedules"`
	CropTo         int                     `json:"crop_to"`
	Workers        int                     `json:"workers"`
	ConsoleLogging string                  `json:"console_logging"`
	HashTracking   bool                    `json:"hash_tracking"`
	Evaluator      factory.ComponentConfig `json:"evaluator"`
}

func (c *SchedulerConfig) SetDefaults() {
	if c.MaxSchedules == 0 {
		c.MaxSchedules = 10
	}
	if c.CropTo == 0 {
		c.CropTo = 5
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ConsoleLogging == "" {
		c.ConsoleLogging = string(scheduler.ConsoleKept)
	}
	if c.Evaluator.Type == "" {
		c.Evaluator.Type = "target_value"
	}
}

func (c SchedulerConfig) Validate() error {
	var errs []error
	if c.CropTo < 1 {
		errs = append(errs, fmt.Errorf("scheduler: crop_to must be >= 1"))
	}
	if c.CropTo >= c.MaxSchedules {
		errs = append(errs, fmt.Errorf("scheduler: crop_to must be below max_schedules"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("scheduler: workers must be >= 1"))
	}
	if _, err := scheduler.ParseConsoleMode(c.ConsoleLogging); err != nil {
		errs = append(errs, fmt.Errorf("scheduler: %w", err))
	}
	return errors.Join(errs...)
}

// LoggingConfig sets the log level and the run store.
type LoggingConfig struct {
	Level    string        `json:"level"`
	RunStore runlog.Config `json:"run_store"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	c.RunStore.SetDefaults()
}
