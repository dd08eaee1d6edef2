// Package metrics exposes forwarded log traffic as Prometheus metrics. A
// collector consumes the in-process event bus and a small HTTP server
// serves the registry.
package metrics
