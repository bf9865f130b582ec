package logger

import corelogger "github.com/kilianp07/horizon/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards everything.
type NopLogger = corelogger.NopLogger

// New returns a Logger tagged with the given component. The output format is
// picked from the APP_ENV variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
