package telemetry

import (
	"io"
	"time"
)

// ReferenceIDProperty names the log property linking a log record to the
// exception record submitted with it.
const ReferenceIDProperty = "ReferenceId"

// ExceptionRecord is an error submitted to the backend.
type ExceptionRecord struct {
	Source      string
	Err         error
	Severity    Severity
	ReferenceID string
	Time        time.Time
}

// LogRecord is a log line with extra properties.
type LogRecord struct {
	Source     string
	Message    string
	Severity   Severity
	Properties map[string]string
	Time       time.Time
}

// Client submits logs and exceptions. Every call is a single synchronous
// round trip; errors are returned to the caller as is.
type Client interface {
	SubmitLog(source, message string, severity Severity) error
	SubmitException(rec ExceptionRecord) error
	SubmitLogRecord(rec LogRecord) error
}

// Kind distinguishes log events from exception events.
type Kind int

const (
	KindLog Kind = iota
	KindException
)

func (k Kind) String() string {
	if k == KindException {
		return "exception"
	}
	return "log"
}

// Event is the flattened form of every submission.
type Event struct {
	Kind        Kind
	Source      string
	Message     string
	Severity    Severity
	Err         error
	ReferenceID string
	Properties  map[string]string
	Time        time.Time
}

// Record is the JSON form of an Event used by the file, database, MQTT and
// webhook senders.
type Record struct {
	Kind        string            `json:"kind"`
	Source      string            `json:"source,omitempty"`
	Message     string            `json:"message,omitempty"`
	Severity    string            `json:"severity"`
	Error       string            `json:"error,omitempty"`
	ReferenceID string            `json:"reference_id,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
	Time        time.Time         `json:"time"`
}

// Record converts the event to its JSON form.
func (e Event) Record() Record {
	r := Record{
		Kind:        e.Kind.String(),
		Source:      e.Source,
		Message:     e.Message,
		Severity:    e.Severity.String(),
		ReferenceID: e.ReferenceID,
		Properties:  e.Properties,
		Time:        e.Time.UTC(),
	}
	if e.Err != nil {
		r.Error = e.Err.Error()
	}
	return r
}

// Sender delivers events to one backend.
type Sender interface {
	Send(ev Event) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ev Event) error

func (f SenderFunc) Send(ev Event) error { return f(ev) }

// NopSender drops every event.
type NopSender struct{}

func (NopSender) Send(Event) error { return nil }

// Close closes s when it holds resources.
func Close(s Sender) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type client struct {
	s   Sender
	now func() time.Time
}

// Adapt returns a Client delivering through s. A nil s drops everything.
func Adapt(s Sender) Client {
	if s == nil {
		s = NopSender{}
	}
	return &client{s: s, now: time.Now}
}

func (c *client) SubmitLog(source, message string, severity Severity) error {
	return c.s.Send(Event{
		Kind:     KindLog,
		Source:   source,
		Message:  message,
		Severity: severity,
		Time:     c.now(),
	})
}

func (c *client) SubmitException(rec ExceptionRecord) error {
	ev := Event{
		Kind:        KindException,
		Source:      rec.Source,
		Err:         rec.Err,
		Severity:    rec.Severity,
		ReferenceID: rec.ReferenceID,
		Time:        rec.Time,
	}
	if rec.Err != nil {
		ev.Message = rec.Err.Error()
	}
	if ev.Time.IsZero() {
		ev.Time = c.now()
	}
	return c.s.Send(ev)
}

func (c *client) SubmitLogRecord(rec LogRecord) error {
	ev := Event{
		Kind:        KindLog,
		Source:      rec.Source,
		Message:     rec.Message,
		Severity:    rec.Severity,
		ReferenceID: rec.Properties[ReferenceIDProperty],
		Properties:  rec.Properties,
		Time:        rec.Time,
	}
	if ev.Time.IsZero() {
		ev.Time = c.now()
	}
	return c.s.Send(ev)
}
