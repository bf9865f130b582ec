// Package monitoring adapts Sentry to the core monitoring interface.
package monitoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	coremon "github.com/kilianp07/horizon/core/monitoring"
)

const panicFlushTimeout = 2 * time.Second

// Config holds the Sentry client settings. An empty DSN disables reporting.
type Config struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	Release          string  `json:"release"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
}

// Enabled reports whether a DSN is configured.
func (c Config) Enabled() bool { return c.DSN != "" }

// Validate checks the sample rate.
func (c Config) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return errors.New("monitoring.traces_sample_rate must be within [0,1]")
	}
	return nil
}

// NewSentryMonitor returns a Monitor backed by its own Sentry hub, or a
// NopMonitor when cfg has no DSN.
func NewSentryMonitor(cfg Config) (coremon.Monitor, error) {
	return newSentryMonitor(cfg, nil)
}

func newSentryMonitor(cfg Config, beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event) (coremon.Monitor, error) {
	if !cfg.Enabled() {
		return coremon.NopMonitor{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: cfg.TracesSampleRate,
		BeforeSend:       beforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	return &sentryMonitor{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

type sentryMonitor struct {
	hub *sentry.Hub
}

func (m *sentryMonitor) CaptureError(err error, tags coremon.Tags) {
	if err == nil {
		return
	}
	if len(tags) == 0 {
		m.hub.CaptureException(err)
		return
	}
	m.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		m.hub.CaptureException(err)
	})
}

func (m *sentryMonitor) RecoverPanic() {
	if r := recover(); r != nil {
		m.hub.Recover(r)
		m.hub.Flush(panicFlushTimeout)
		panic(r)
	}
}

func (m *sentryMonitor) Flush(timeout time.Duration) bool { return m.hub.Flush(timeout) }
