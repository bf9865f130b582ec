package scheduler

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
)

// ConsoleMode selects how much the scheduler prints per step.
type ConsoleMode string

const (
	// ConsoleOff prints nothing.
	ConsoleOff ConsoleMode = "off"
	// ConsoleKept prints the step status line.
	ConsoleKept ConsoleMode = "kept"
	// ConsoleAll also lists every branch kept after the step.
	ConsoleAll ConsoleMode = "all"
)

// ParseConsoleMode accepts any casing; empty means ConsoleKept.
func ParseConsoleMode(s string) (ConsoleMode, error) {
	switch m := ConsoleMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ConsoleKept, nil
	case ConsoleOff, ConsoleKept, ConsoleAll:
		return m, nil
	}
	return "", fmt.Errorf("unknown console mode %q", s)
}

// Params drives a run. Times are simulation seconds.
type Params struct {
	Start float64 `json:"start_seconds" yaml:"start_seconds"`
	End   float64 `json:"end_seconds" yaml:"end_seconds"`
	Step  float64 `json:"step_seconds" yaml:"step_seconds"`
	// MaxSchedules triggers a crop when the pool grows beyond it.
	MaxSchedules int `json:"max_schedules" yaml:"max_schedules"`
	// CropTo is the number of non-baseline branches kept by a crop.
	CropTo       int         `json:"crop_to" yaml:"crop_to"`
	Workers      int         `json:"workers" yaml:"workers"`
	Console      ConsoleMode `json:"console_logging" yaml:"console_logging"`
	HashTracking bool        `json:"hash_tracking" yaml:"hash_tracking"`
}

// SetDefaults fills zero fields.
func (p *Params) SetDefaults() {
	if p.End == 0 && p.Start == 0 {
		p.End = 60
	}
	if p.Step == 0 {
		p.Step = 12
	}
	if p.MaxSchedules == 0 {
		p.MaxSchedules = 10
	}
	if p.CropTo == 0 {
		p.CropTo = 5
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	if p.Console == "" {
		p.Console = ConsoleKept
	}
}

// Validate rejects inconsistent parameters.
func (p Params) Validate() error {
	var errs []error
	if p.Start >= p.End {
		errs = append(errs, fmt.Errorf("start %.2f must be before end %.2f", p.Start, p.End))
	}
	if p.Step <= 0 {
		errs = append(errs, errors.New("step must be positive"))
	}
	if p.CropTo < 1 {
		errs = append(errs, errors.New("crop_to must be at least 1"))
	}
	if p.CropTo >= p.MaxSchedules {
		errs = append(errs, fmt.Errorf("crop_to %d must be below max_schedules %d", p.CropTo, p.MaxSchedules))
	}
	if _, err := ParseConsoleMode(string(p.Console)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TotalSteps is the number of loop iterations of a run.
func (p Params) TotalSteps() int {
	return int(math.Ceil((p.End - p.Start) / p.Step))
}

// StepTime returns the start time of step k, counted from 0.
func (p Params) StepTime(k int) float64 {
	return p.Start + float64(k)*p.Step
}
