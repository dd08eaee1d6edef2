// Package forward implements logging.Logger on top of a telemetry.Client.
//
// Each call renders its message immediately and performs one submission, or
// two for the exception forms: an exception record and a Debug log record
// linked to it through a fresh correlation token stored under the
// ReferenceId property. The stored Level is informational only; no call is
// ever filtered.
//
// Target severities are fixed per method. Most follow the method's level,
// with these exceptions kept for compatibility with existing dashboards:
//
//   - WarnfWith with one to three arguments submits at Info.
//   - Fatal, and Fatalf with zero or more than three arguments, submit at Info.
//   - FatalException submits its exception record at Info.
//   - Every exception form submits its linked log record at Debug.
//   - Write maps FatalLevel to Error.
package forward
