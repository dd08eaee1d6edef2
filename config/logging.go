package config

import (
	"fmt"
	"strings"

	"github.com/kilianp07/logfwd/core/logging"
)

// LoggingConfig sets the level of the forwarder's own diagnostics.
type LoggingConfig struct {
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		return nil
	default:
		return fmt.Errorf("unknown level %s", c.Level)
	}
}

// ForwarderConfig holds the defaults used by the CLI when forwarding.
type ForwarderConfig struct {
	// Source is used when a command does not name one.
	Source string `json:"source"`
	// Level is the default level of emitted lines.
	Level string `json:"level"`
	// Provider is a BCP 47 culture such as "de-DE". Empty means invariant.
	Provider string `json:"provider"`
}

// SetDefaults applies sane defaults.
func (c *ForwarderConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = "logfwd"
	}
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level and culture names.
func (c ForwarderConfig) Validate() error {
	if _, err := logging.ParseLevel(c.Level); err != nil {
		return err
	}
	if c.Provider != "" {
		if _, err := logging.CultureFor(c.Provider); err != nil {
			return err
		}
	}
	return nil
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	PrometheusEnabled bool `json:"prometheus_enabled"`
	PrometheusPort    int  `json:"prometheus_port"`
	// BusBuffer is the queue length between the senders and the collector.
	BusBuffer int `json:"bus_buffer"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 9090
	}
	if c.BusBuffer == 0 {
		c.BusBuffer = 256
	}
}

// Validate checks the port range.
func (c MetricsConfig) Validate() error {
	if c.PrometheusPort < 0 || c.PrometheusPort > 65535 {
		return fmt.Errorf("invalid prometheus_port %d", c.PrometheusPort)
	}
	if c.BusBuffer < 0 {
		return fmt.Errorf("bus_buffer must not be negative")
	}
	return nil
}

// Addr is the listen address of the metrics server.
func (c MetricsConfig) Addr() string { return fmt.Sprintf(":%d", c.PrometheusPort) }
