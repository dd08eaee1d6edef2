package telemetry

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

// ConsoleConfig selects the stream and format of the console senders.
type ConsoleConfig struct {
	Output string `json:"output"`
	Pretty bool   `json:"pretty"`
}

func (c ConsoleConfig) writer() (io.Writer, error) {
	switch c.Output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("console: unknown output %q", c.Output)
	}
}

// ZerologSender writes one zerolog line per event.
type ZerologSender struct {
	log zerolog.Logger
}

// NewZerologSender writes to w, human readable when pretty is set.
func NewZerologSender(w io.Writer, pretty bool) *ZerologSender {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return &ZerologSender{log: zerolog.New(w)}
}

// Send emits the event with the matching level field. The global zerolog
// level only governs diagnostics, so the line is written unconditionally.
func (s *ZerologSender) Send(ev coretelemetry.Event) error {
	e := s.log.Log().
		Str(zerolog.LevelFieldName, zerologLevel(ev.Severity).String()).
		Time(zerolog.TimestampFieldName, ev.Time).
		Str("kind", ev.Kind.String())
	if ev.Source != "" {
		e = e.Str("source", ev.Source)
	}
	if ev.ReferenceID != "" {
		e = e.Str("reference_id", ev.ReferenceID)
	}
	if ev.Err != nil {
		e = e.Err(ev.Err)
	}
	for k, v := range ev.Properties {
		e = e.Str(k, v)
	}
	e.Msg(ev.Message)
	return nil
}

func zerologLevel(sev coretelemetry.Severity) zerolog.Level {
	switch sev {
	case coretelemetry.SeverityDebug:
		return zerolog.DebugLevel
	case coretelemetry.SeverityWarn:
		return zerolog.WarnLevel
	case coretelemetry.SeverityError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogrusSender writes one logrus entry per event.
type LogrusSender struct {
	log *logrus.Logger
}

// NewLogrusSender writes JSON entries to w, text entries when pretty is set.
func NewLogrusSender(w io.Writer, pretty bool) *LogrusSender {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	if pretty {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}
	return &LogrusSender{log: l}
}

// Send emits the event at the matching logrus level.
func (s *LogrusSender) Send(ev coretelemetry.Event) error {
	fields := logrus.Fields{"kind": ev.Kind.String()}
	if ev.Source != "" {
		fields["source"] = ev.Source
	}
	if ev.ReferenceID != "" {
		fields["reference_id"] = ev.ReferenceID
	}
	for k, v := range ev.Properties {
		fields[k] = v
	}
	entry := s.log.WithFields(fields).WithTime(ev.Time)
	if ev.Err != nil {
		entry = entry.WithError(ev.Err)
	}
	entry.Log(logrusLevel(ev.Severity), ev.Message)
	return nil
}

func logrusLevel(sev coretelemetry.Severity) logrus.Level {
	switch sev {
	case coretelemetry.SeverityDebug:
		return logrus.DebugLevel
	case coretelemetry.SeverityWarn:
		return logrus.WarnLevel
	case coretelemetry.SeverityError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
