package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `logging:
  level: debug
forwarder:
  source: billing
  level: warn
  provider: de-DE
sinks:
  - type: jsonl
    conf:
      path: /tmp/events.jsonl
      max_size_mb: 10
  - type: mqtt
    conf:
      broker: "tcp://localhost:1883"
      topic_prefix: "app/logs"
metrics:
  prometheus_enabled: true
  prometheus_port: 9100
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"logging.level", cfg.Logging.Level, "debug"},
		{"forwarder.source", cfg.Forwarder.Source, "billing"},
		{"forwarder.level", cfg.Forwarder.Level, "warn"},
		{"forwarder.provider", cfg.Forwarder.Provider, "de-DE"},
		{"sinks", len(cfg.Sinks), 2},
		{"sinks[0].type", cfg.Sinks[0].Type, "jsonl"},
		{"sinks[0].path", cfg.Sinks[0].Conf["path"], "/tmp/events.jsonl"},
		{"sinks[1].broker", cfg.Sinks[1].Conf["broker"], "tcp://localhost:1883"},
		{"metrics.enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.port", cfg.Metrics.PrometheusPort, 9100},
		{"metrics.addr", cfg.Metrics.Addr(), ":9100"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
}

func TestLoad_JSONDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{"sinks":[{"type":"nop"}]}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "logfwd", cfg.Forwarder.Source)
	assert.Equal(t, "info", cfg.Forwarder.Level)
	assert.Empty(t, cfg.Forwarder.Provider)
	assert.False(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, 9090, cfg.Metrics.PrometheusPort)
	assert.Equal(t, 256, cfg.Metrics.BusBuffer)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "forwarder:\n  source: from-file\n")
	t.Setenv("LOGFWD_FORWARDER__SOURCE", "from-env")
	t.Setenv("LOGFWD_LOGGING__LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Forwarder.Source)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("LOGFWD_FORWARDER__LEVEL", "error")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Forwarder.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"format", "config.toml", "a = 1"},
		{"logging level", "config.yaml", "logging:\n  level: loud\n"},
		{"forwarder level", "config.yaml", "forwarder:\n  level: verbose\n"},
		{"provider", "config.yaml", "forwarder:\n  provider: \"not a culture!\"\n"},
		{"port", "config.yaml", "metrics:\n  prometheus_port: 70000\n"},
		{"sink type", "config.yaml", "sinks:\n  - conf: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
