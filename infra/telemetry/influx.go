package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

// InfluxConfig configures the InfluxDB sender.
type InfluxConfig struct {
	URL     string        `json:"url"`
	Token   string        `json:"token"`
	Org     string        `json:"org"`
	Bucket  string        `json:"bucket"`
	Timeout time.Duration `json:"timeout"`
}

// InfluxSender writes one log_event point per event.
type InfluxSender struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	timeout  time.Duration
}

// NewInfluxSender creates a sender for the given InfluxDB endpoint.
func NewInfluxSender(cfg InfluxConfig) (*InfluxSender, error) {
	if cfg.URL == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("influx: url and bucket are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	return &InfluxSender{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		timeout:  cfg.Timeout,
	}, nil
}

// Point converts ev to the line-protocol point written by Send.
func Point(ev coretelemetry.Event) *write.Point {
	p := write.NewPointWithMeasurement("log_event").
		AddTag("kind", ev.Kind.String()).
		AddTag("severity", ev.Severity.String())
	if ev.Source != "" {
		p = p.AddTag("source", ev.Source)
	}
	if ev.ReferenceID != "" {
		p = p.AddTag("reference_id", ev.ReferenceID)
	}
	p = p.AddField("message", ev.Message)
	if ev.Err != nil {
		p = p.AddField("error", ev.Err.Error())
	}
	return p.SetTime(ev.Time)
}

// Send writes the event synchronously.
func (s *InfluxSender) Send(ev coretelemetry.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, Point(ev))
}

// Close releases the HTTP client.
func (s *InfluxSender) Close() error {
	s.client.Close()
	return nil
}
