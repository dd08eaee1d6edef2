package forward

import (
	"github.com/kilianp07/logfwd/core/logging"
	"github.com/kilianp07/logfwd/core/telemetry"
)

func (f *Forwarder) Debug(message string) error {
	return f.submit(message, telemetry.SeverityDebug)
}

func (f *Forwarder) Debugf(format string, args ...any) error {
	return f.formatted(nil, format, args, telemetry.SeverityDebug, telemetry.SeverityDebug)
}

func (f *Forwarder) DebugfWith(p logging.FormatProvider, format string, args ...any) error {
	return f.formatted(p, format, args, telemetry.SeverityDebug, telemetry.SeverityDebug)
}

func (f *Forwarder) DebugValue(v any) error {
	return f.value(nil, v, telemetry.SeverityDebug)
}

func (f *Forwarder) DebugValueWith(p logging.FormatProvider, v any) error {
	return f.value(p, v, telemetry.SeverityDebug)
}

func (f *Forwarder) DebugException(message string, err error) error {
	return f.exception(message, err, telemetry.SeverityDebug)
}

func (f *Forwarder) Info(message string) error {
	return f.submit(message, telemetry.SeverityInfo)
}

func (f *Forwarder) Infof(format string, args ...any) error {
	return f.formatted(nil, format, args, telemetry.SeverityInfo, telemetry.SeverityInfo)
}

func (f *Forwarder) InfofWith(p logging.FormatProvider, format string, args ...any) error {
	return f.formatted(p, format, args, telemetry.SeverityInfo, telemetry.SeverityInfo)
}

func (f *Forwarder) InfoValue(v any) error {
	return f.value(nil, v, telemetry.SeverityInfo)
}

func (f *Forwarder) InfoValueWith(p logging.FormatProvider, v any) error {
	return f.value(p, v, telemetry.SeverityInfo)
}

func (f *Forwarder) InfoException(message string, err error) error {
	return f.exception(message, err, telemetry.SeverityInfo)
}

func (f *Forwarder) Warn(message string) error {
	return f.submit(message, telemetry.SeverityWarn)
}

func (f *Forwarder) Warnf(format string, args ...any) error {
	return f.formatted(nil, format, args, telemetry.SeverityWarn, telemetry.SeverityWarn)
}

// WarnfWith submits at Info when given one to three arguments.
func (f *Forwarder) WarnfWith(p logging.FormatProvider, format string, args ...any) error {
	return f.formatted(p, format, args, telemetry.SeverityWarn, telemetry.SeverityInfo)
}

func (f *Forwarder) WarnValue(v any) error {
	return f.value(nil, v, telemetry.SeverityWarn)
}

func (f *Forwarder) WarnValueWith(p logging.FormatProvider, v any) error {
	return f.value(p, v, telemetry.SeverityWarn)
}

func (f *Forwarder) WarnException(message string, err error) error {
	return f.exception(message, err, telemetry.SeverityWarn)
}

func (f *Forwarder) Error(message string) error {
	return f.submit(message, telemetry.SeverityError)
}

func (f *Forwarder) Errorf(format string, args ...any) error {
	return f.formatted(nil, format, args, telemetry.SeverityError, telemetry.SeverityError)
}

func (f *Forwarder) ErrorfWith(p logging.FormatProvider, format string, args ...any) error {
	return f.formatted(p, format, args, telemetry.SeverityError, telemetry.SeverityError)
}

func (f *Forwarder) ErrorValue(v any) error {
	return f.value(nil, v, telemetry.SeverityError)
}

func (f *Forwarder) ErrorValueWith(p logging.FormatProvider, v any) error {
	return f.value(p, v, telemetry.SeverityError)
}

func (f *Forwarder) ErrorException(message string, err error) error {
	return f.exception(message, err, telemetry.SeverityError)
}

// Fatal submits at Info.
func (f *Forwarder) Fatal(message string) error {
	return f.submit(message, telemetry.SeverityInfo)
}

// Fatalf submits at Error for one to three arguments and at Info otherwise.
func (f *Forwarder) Fatalf(format string, args ...any) error {
	return f.formatted(nil, format, args, telemetry.SeverityInfo, telemetry.SeverityError)
}

func (f *Forwarder) FatalfWith(p logging.FormatProvider, format string, args ...any) error {
	return f.formatted(p, format, args, telemetry.SeverityError, telemetry.SeverityError)
}

func (f *Forwarder) FatalValue(v any) error {
	return f.value(nil, v, telemetry.SeverityError)
}

func (f *Forwarder) FatalValueWith(p logging.FormatProvider, v any) error {
	return f.value(p, v, telemetry.SeverityError)
}

// FatalException submits the exception record at Info.
func (f *Forwarder) FatalException(message string, err error) error {
	return f.exception(message, err, telemetry.SeverityInfo)
}
