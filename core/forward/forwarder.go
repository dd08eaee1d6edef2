package forward

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kilianp07/logfwd/core/logging"
	"github.com/kilianp07/logfwd/core/telemetry"
)

var (
	// ErrNilClient is returned when no telemetry client is given.
	ErrNilClient = errors.New("forward: telemetry client is required")
	// ErrNilException is returned by the exception forms when err is nil.
	ErrNilException = errors.New("forward: exception is required")
)

var writeSeverity = map[logging.Level]telemetry.Severity{
	logging.DebugLevel: telemetry.SeverityDebug,
	logging.InfoLevel:  telemetry.SeverityInfo,
	logging.WarnLevel:  telemetry.SeverityWarn,
	logging.ErrorLevel: telemetry.SeverityError,
	logging.FatalLevel: telemetry.SeverityError,
}

// Forwarder sends every logging call for one source to a telemetry client.
// It is safe for concurrent use.
type Forwarder struct {
	source string
	client telemetry.Client
	level  atomic.Int32
	newID  func() string
}

var _ logging.Logger = (*Forwarder)(nil)

// New returns a Forwarder for source.
func New(source string, client telemetry.Client) (*Forwarder, error) {
	if source == "" {
		return nil, logging.ErrNoSource
	}
	if client == nil {
		return nil, ErrNilClient
	}
	return &Forwarder{source: source, client: client, newID: uuid.NewString}, nil
}

// NewFor returns a Forwarder named after the type of v.
func NewFor(v any, client telemetry.Client) (*Forwarder, error) {
	source, err := logging.SourceOf(v)
	if err != nil {
		return nil, err
	}
	return New(source, client)
}

// Factory returns a logging.Factory creating Forwarders on client.
func Factory(client telemetry.Client) logging.Factory {
	return func(source string) (logging.Logger, error) {
		f, err := New(source, client)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

func (f *Forwarder) Source() string { return f.source }

func (f *Forwarder) Level() logging.Level { return logging.Level(f.level.Load()) }

func (f *Forwarder) SetLevel(l logging.Level) { f.level.Store(int32(l)) }

// Write submits message at the severity mapped from level.
func (f *Forwarder) Write(message string, level logging.Level) error {
	sev, ok := writeSeverity[level]
	if !ok {
		return fmt.Errorf("forward: unknown level %s", level)
	}
	return f.submit(message, sev)
}

func (f *Forwarder) submit(message string, sev telemetry.Severity) error {
	return f.client.SubmitLog(f.source, message, sev)
}

// formatted renders format and submits it at fixed for one to three
// arguments and at params for any other count.
func (f *Forwarder) formatted(p logging.FormatProvider, format string, args []any, params, fixed telemetry.Severity) error {
	sev := params
	if n := len(args); n >= 1 && n <= 3 {
		sev = fixed
	}
	msg, err := logging.Format(p, format, args...)
	if err != nil {
		return err
	}
	return f.submit(msg, sev)
}

func (f *Forwarder) value(p logging.FormatProvider, v any, sev telemetry.Severity) error {
	if p == nil {
		return f.submit(logging.Render(v), sev)
	}
	msg, err := p.FormatValue(v, "")
	if err != nil {
		return err
	}
	return f.submit(msg, sev)
}

// exception submits err with a new correlation token, then a Debug log
// record carrying the same token. The two submissions are independent.
func (f *Forwarder) exception(message string, err error, sev telemetry.Severity) error {
	if err == nil {
		return ErrNilException
	}
	ref := f.newID()
	if serr := f.client.SubmitException(telemetry.ExceptionRecord{
		Source:      f.source,
		Err:         err,
		Severity:    sev,
		ReferenceID: ref,
	}); serr != nil {
		return serr
	}
	return f.client.SubmitLogRecord(telemetry.LogRecord{
		Source:     f.source,
		Message:    message,
		Severity:   telemetry.SeverityDebug,
		Properties: map[string]string{telemetry.ReferenceIDProperty: ref},
	})
}
