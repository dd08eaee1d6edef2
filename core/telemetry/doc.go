// Package telemetry defines the event submission client the forwarder writes
// to. Client is the shape the forwarder depends on; Sender is the single
// method every backend implements, and Adapt turns a Sender into a Client.
// Backends are registered by name and built from configuration with
// NewSender, which combines several configured sinks into a Multi.
package telemetry
