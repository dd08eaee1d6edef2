package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/logfwd/core/factory"
)

// EnvPrefix marks environment variables that override file settings.
// A double underscore separates nested keys: LOGFWD_FORWARDER__SOURCE.
const EnvPrefix = "LOGFWD_"

type Config struct {
	Logging   LoggingConfig          `json:"logging"`
	Forwarder ForwarderConfig        `json:"forwarder"`
	Sinks     []factory.ModuleConfig `json:"sinks"`
	Metrics   MetricsConfig          `json:"metrics"`
}

// Load reads a YAML or JSON file, applies environment overrides and
// validates the result. An empty path loads defaults and the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides. The provider unflattens on "__" so the
	// callback must keep it.
	prefix := strings.ToLower(EnvPrefix)
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), prefix)
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Logging.SetDefaults()
	c.Forwarder.SetDefaults()
	c.Metrics.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Forwarder.Validate(); err != nil {
		return fmt.Errorf("forwarder: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("sinks[%d]: type is required", i)
		}
	}
	return nil
}
