package telemetry

import (
	"time"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

// Query filters stored records. Zero fields match everything.
type Query struct {
	Start       time.Time
	End         time.Time
	Source      string
	Severity    *coretelemetry.Severity
	ReferenceID string
	Kind        string
}

// Match reports whether r passes every filter in q.
func (q Query) Match(r coretelemetry.Record) bool {
	if !q.Start.IsZero() && r.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Time.After(q.End) {
		return false
	}
	if q.Source != "" && r.Source != q.Source {
		return false
	}
	if q.Severity != nil && r.Severity != q.Severity.String() {
		return false
	}
	if q.ReferenceID != "" && r.ReferenceID != q.ReferenceID {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	return true
}
