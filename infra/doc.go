// Package infra contains technical adapters: telemetry senders, the
// Prometheus exporter and the diagnostic logger. These packages depend only
// on the interfaces defined in the core packages.
package infra
