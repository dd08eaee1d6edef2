package telemetry

import (
	"os"

	"github.com/kilianp07/logfwd/core/factory"
	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

func init() {
	must := func(name string, f factory.Factory[coretelemetry.Sender]) {
		if err := coretelemetry.RegisterSender(name, f); err != nil {
			panic(err)
		}
	}
	must("nop", func(map[string]any) (coretelemetry.Sender, error) {
		return coretelemetry.NopSender{}, nil
	})
	must("console", func(m map[string]any) (coretelemetry.Sender, error) {
		var c ConsoleConfig
		if err := factory.Decode(m, &c); err != nil {
			return nil, err
		}
		w, err := c.writer()
		if err != nil {
			return nil, err
		}
		return NewZerologSender(w, c.Pretty), nil
	})
	must("logrus", func(m map[string]any) (coretelemetry.Sender, error) {
		var c ConsoleConfig
		if err := factory.Decode(m, &c); err != nil {
			return nil, err
		}
		w, err := c.writer()
		if err != nil {
			return nil, err
		}
		return NewLogrusSender(w, c.Pretty), nil
	})
	must("jsonl", func(m map[string]any) (coretelemetry.Sender, error) {
		var c JSONLConfig
		if err := factory.Decode(m, &c); err != nil {
			return nil, err
		}
		return NewJSONLSender(c)
	})
	must("sqlite", func(m map[string]any) (coretelemetry.Sender, error) {
		var c SQLiteConfig
		if err := factory.Decode(m, &c); err != nil {
			return nil, err
		}
		return NewSQLiteSender(c)
	})
	must("mqtt", func(m map[string]any) (coretelemetry.Sender, error) {
		var c MQTTConfig
		if err := factory.Decode(m, &c); err != nil {
			return nil, err
		}
		return NewMQTTSender(c)
	})
	must("influx", func(m map[string]any) (coretelemetry.Sender, error) {
		var c InfluxConfig
		if err := factory.Decode(m, &c); err != nil {
			return nil, err
		}
		if c.Token == "" {
			c.Token = os.Getenv("INFLUX_TOKEN")
		}
		return NewInfluxSender(c)
	})
	must("http", func(m map[string]any) (coretelemetry.Sender, error) {
		var c HTTPConfig
		if err := factory.Decode(m, &c); err != nil {
			return nil, err
		}
		return NewHTTPSender(c)
	})
	must("sentry", func(m map[string]any) (coretelemetry.Sender, error) {
		var c SentryConfig
		if err := factory.Decode(m, &c); err != nil {
			return nil, err
		}
		if c.DSN == "" {
			c.DSN = os.Getenv("SENTRY_DSN")
		}
		return NewSentrySender(c)
	})
}
