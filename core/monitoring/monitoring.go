// Package monitoring reports failed runs to an error tracker.
package monitoring

import "time"

// Tags annotate a captured error.
type Tags map[string]string

// Monitor receives run failures and panics.
type Monitor interface {
	CaptureError(err error, tags Tags)
	// RecoverPanic must be deferred directly. It reports a panic in flight
	// and re-raises it.
	RecoverPanic()
	Flush(timeout time.Duration) bool
}

// NopMonitor drops everything.
type NopMonitor struct{}

func (NopMonitor) CaptureError(error, Tags) {}
func (NopMonitor) RecoverPanic()            {}
func (NopMonitor) Flush(time.Duration) bool { return true }
