package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/logfwd/core/telemetry"
)

// Recorder consumes delivered events.
type Recorder interface {
	Record(ev telemetry.Event)
}

// PromRecorder counts delivered events per kind, severity and source.
type PromRecorder struct {
	events  *prometheus.CounterVec
	dropped prometheus.Counter
}

// NewPromRecorder registers the collectors on reg. A nil registerer defaults
// to the global Prometheus registerer and collectors registered earlier are
// reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logfwd_events_total",
		Help: "Total number of events delivered to the telemetry sinks",
	}, []string{"kind", "severity", "source"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "logfwd_bus_dropped_total",
		Help: "Events not observed by the metrics collector because its queue was full",
	})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(dropped); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			dropped = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	return &PromRecorder{events: events, dropped: dropped}, nil
}

// Record increments the counter for ev.
func (r *PromRecorder) Record(ev telemetry.Event) {
	r.events.WithLabelValues(ev.Kind.String(), ev.Severity.String(), ev.Source).Inc()
}

// AddDropped adds n to the dropped counter.
func (r *PromRecorder) AddDropped(n uint64) {
	if n > 0 {
		r.dropped.Add(float64(n))
	}
}
