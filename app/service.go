package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/logfwd/config"
	"github.com/kilianp07/logfwd/core/forward"
	"github.com/kilianp07/logfwd/core/logging"
	"github.com/kilianp07/logfwd/core/telemetry"
	"github.com/kilianp07/logfwd/infra/logger"
	"github.com/kilianp07/logfwd/infra/metrics"
	infratelemetry "github.com/kilianp07/logfwd/infra/telemetry"
	"github.com/kilianp07/logfwd/internal/eventbus"
)

// Service wires the configured senders to a logger manager. Loggers are
// obtained from it explicitly; there is no process-wide registration.
type Service struct {
	loggers  *logging.Manager
	sender   telemetry.Sender
	provider logging.FormatProvider

	bus      *eventbus.Bus[telemetry.Event]
	registry *prometheus.Registry
	recorder *metrics.PromRecorder
	metrics  config.MetricsConfig

	log logger.Logger
}

// New creates a Service from the configuration, building one sender per
// entry of cfg.Sinks.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	sender, err := telemetry.NewSender(cfg.Sinks)
	if err != nil {
		return nil, fmt.Errorf("senders: %w", err)
	}
	svc, err := NewWithSender(cfg, sender)
	if err != nil {
		_ = telemetry.Close(sender)
		return nil, err
	}
	return svc, nil
}

// NewWithSender creates a Service delivering through sender. The service
// takes ownership of sender and closes it in Close.
func NewWithSender(cfg *config.Config, sender telemetry.Sender) (*Service, error) {
	svc := &Service{
		provider: logging.Invariant,
		metrics:  cfg.Metrics,
		log:      logger.New("service"),
	}
	lvl, err := logging.ParseLevel(cfg.Forwarder.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Forwarder.Provider != "" {
		c, err := logging.CultureFor(cfg.Forwarder.Provider)
		if err != nil {
			return nil, err
		}
		svc.provider = c
	}
	if cfg.Metrics.PrometheusEnabled {
		svc.bus = eventbus.NewWithBuffer[telemetry.Event](cfg.Metrics.BusBuffer)
		svc.registry = prometheus.NewRegistry()
		rec, err := metrics.NewPromRecorder(svc.registry)
		if err != nil {
			return nil, fmt.Errorf("prom recorder: %w", err)
		}
		svc.recorder = rec
		sender = infratelemetry.NewBusSender(sender, svc.bus)
	}
	svc.sender = sender
	create := forward.Factory(telemetry.Adapt(sender))
	svc.loggers = logging.NewManager(func(source string) (logging.Logger, error) {
		l, err := create(source)
		if err != nil {
			return nil, err
		}
		l.SetLevel(lvl)
		return l, nil
	})
	svc.log.Debugw("service ready", map[string]any{
		"senders": len(cfg.Sinks),
		"metrics": cfg.Metrics.PrometheusEnabled,
	})
	return svc, nil
}

// Logger returns the logger for source, creating it at the configured level
// on first use.
func (s *Service) Logger(source string) (logging.Logger, error) {
	return s.loggers.GetLogger(source)
}

// Loggers exposes the underlying manager.
func (s *Service) Loggers() *logging.Manager { return s.loggers }

// Provider is the configured culture, Invariant when none is set.
func (s *Service) Provider() logging.FormatProvider { return s.provider }

// Registry is the Prometheus registry, nil when metrics are disabled.
func (s *Service) Registry() *prometheus.Registry { return s.registry }

// Run serves metrics until the context is cancelled. Without metrics it
// only waits.
func (s *Service) Run(ctx context.Context) error {
	if !s.metrics.PrometheusEnabled {
		<-ctx.Done()
		return nil
	}
	done := metrics.StartEventCollector(ctx, s.bus, s.recorder)
	err := metrics.StartPromServer(ctx, s.metrics.Addr(), s.registry)
	if err != nil {
		s.log.Errorf("prom server: %v", err)
		return err
	}
	<-done
	return nil
}

// Close releases the senders and the event bus.
func (s *Service) Close() error {
	err := telemetry.Close(s.sender)
	if s.bus != nil {
		s.bus.Close()
		if n := s.bus.Dropped(); n > 0 {
			s.log.Warnf("metrics collector missed %d events", n)
		}
	}
	if err != nil {
		s.log.Errorf("close senders: %v", err)
		return fmt.Errorf("close senders: %w", err)
	}
	return nil
}
