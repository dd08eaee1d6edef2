package logger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the diagnostics logger used by logfwd's own components.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a Logger for the given component. The environment is detected via
// the APP_ENV variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}

// SetLevel sets the minimum level of every diagnostics logger.
func SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("diagnostics level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
