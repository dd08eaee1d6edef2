package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/logfwd/core/telemetry"
)

// Header is the CSV column order written by WriteCSV.
var Header = []string{"time", "kind", "severity", "source", "reference_id", "message", "error", "properties"}

// WriteJSON writes one record per line.
func WriteJSON(w io.Writer, recs []telemetry.Record) error {
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the records with a header row. Properties are rendered as
// key=value pairs sorted by key and joined with ';'.
func WriteCSV(w io.Writer, recs []telemetry.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range recs {
		rec := []string{
			r.Time.Format(time.RFC3339Nano),
			r.Kind,
			r.Severity,
			r.Source,
			r.ReferenceID,
			r.Message,
			r.Error,
			properties(r.Properties),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func properties(p map[string]string) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p[k]
	}
	return strings.Join(parts, ";")
}
