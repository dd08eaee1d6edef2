package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

// ErrEventDropped is returned when Sentry refuses to queue an event, for
// example because a BeforeSend hook discarded it.
var ErrEventDropped = errors.New("sentry: event dropped")

// SentryConfig configures the Sentry sender.
type SentryConfig struct {
	DSN          string        `json:"dsn"`
	Environment  string        `json:"environment"`
	Release      string        `json:"release"`
	FlushTimeout time.Duration `json:"flush_timeout"`
}

// SentrySender reports logs as messages and exceptions as Sentry exceptions.
// It owns its hub so several senders can coexist in one process.
type SentrySender struct {
	hub   *sentry.Hub
	flush time.Duration
}

// NewSentrySender creates a sender from cfg. An empty DSN builds a client
// that discards everything.
func NewSentrySender(cfg SentryConfig) (*SentrySender, error) {
	return newSentrySender(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
	}, cfg.FlushTimeout)
}

func newSentrySender(opts sentry.ClientOptions, flush time.Duration) (*SentrySender, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	if flush <= 0 {
		flush = 2 * time.Second
	}
	return &SentrySender{hub: sentry.NewHub(client, sentry.NewScope()), flush: flush}, nil
}

// Send captures the event inside its own scope.
func (s *SentrySender) Send(ev coretelemetry.Event) error {
	var id *sentry.EventID
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel(ev.Severity))
		scope.SetTag("kind", ev.Kind.String())
		if ev.Source != "" {
			scope.SetTag("source", ev.Source)
		}
		if ev.ReferenceID != "" {
			scope.SetTag("reference_id", ev.ReferenceID)
		}
		for k, v := range ev.Properties {
			scope.SetTag(k, v)
		}
		if ev.Kind == coretelemetry.KindException && ev.Err != nil {
			id = s.hub.CaptureException(ev.Err)
			return
		}
		id = s.hub.CaptureMessage(ev.Message)
	})
	if id == nil {
		return ErrEventDropped
	}
	return nil
}

// Close flushes buffered events.
func (s *SentrySender) Close() error {
	if !s.hub.Flush(s.flush) {
		return fmt.Errorf("sentry: flush timed out after %s", s.flush)
	}
	return nil
}

func sentryLevel(sev coretelemetry.Severity) sentry.Level {
	switch sev {
	case coretelemetry.SeverityDebug:
		return sentry.LevelDebug
	case coretelemetry.SeverityWarn:
		return sentry.LevelWarning
	case coretelemetry.SeverityError:
		return sentry.LevelError
	default:
		return sentry.LevelInfo
	}
}
