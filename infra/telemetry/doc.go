// Package telemetry holds the concrete senders behind the forwarder's
// telemetry client: Sentry, MQTT, InfluxDB, rotating JSON-lines files,
// SQLite, zerolog and logrus consoles. Each one registers itself by name so
// configuration can select it with a factory.ModuleConfig.
package telemetry
