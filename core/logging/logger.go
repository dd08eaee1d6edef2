package logging

// Logger is the full logging surface. Every method renders its message
// eagerly and returns the error of the underlying submission.
//
// The f variants take positional arguments: one to three arguments select
// the fixed-arity forms, any other count the open-arity form. The With
// variants render through the given FormatProvider instead of Invariant.
type Logger interface {
	Source() string
	Level() Level
	SetLevel(Level)

	Write(message string, level Level) error

	Debug(message string) error
	Debugf(format string, args ...any) error
	DebugfWith(p FormatProvider, format string, args ...any) error
	DebugValue(v any) error
	DebugValueWith(p FormatProvider, v any) error
	DebugException(message string, err error) error

	Info(message string) error
	Infof(format string, args ...any) error
	InfofWith(p FormatProvider, format string, args ...any) error
	InfoValue(v any) error
	InfoValueWith(p FormatProvider, v any) error
	InfoException(message string, err error) error

	Warn(message string) error
	Warnf(format string, args ...any) error
	WarnfWith(p FormatProvider, format string, args ...any) error
	WarnValue(v any) error
	WarnValueWith(p FormatProvider, v any) error
	WarnException(message string, err error) error

	Error(message string) error
	Errorf(format string, args ...any) error
	ErrorfWith(p FormatProvider, format string, args ...any) error
	ErrorValue(v any) error
	ErrorValueWith(p FormatProvider, v any) error
	ErrorException(message string, err error) error

	Fatal(message string) error
	Fatalf(format string, args ...any) error
	FatalfWith(p FormatProvider, format string, args ...any) error
	FatalValue(v any) error
	FatalValueWith(p FormatProvider, v any) error
	FatalException(message string, err error) error
}

// Factory builds the Logger for a source.
type Factory func(source string) (Logger, error)
