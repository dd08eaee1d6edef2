package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/logfwd/core/telemetry"
	infratelemetry "github.com/kilianp07/logfwd/infra/telemetry"
	"github.com/kilianp07/logfwd/pkg/export"
)

var queryOpts struct {
	store       string
	path        string
	source      string
	referenceID string
	kind        string
	severity    string
	since       time.Duration
	format      string
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print records stored by the jsonl or sqlite sink",
	Args:  cobra.NoArgs,
	RunE:  runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&queryOpts.store, "store", "jsonl", "jsonl or sqlite")
	f.StringVar(&queryOpts.path, "path", "", "file written by the sink")
	f.StringVar(&queryOpts.source, "source", "", "only records from this source")
	f.StringVar(&queryOpts.referenceID, "reference-id", "", "only records sharing this reference id")
	f.StringVar(&queryOpts.kind, "kind", "", "log or exception")
	f.StringVar(&queryOpts.severity, "severity", "", "debug, info, warn or error")
	f.DurationVar(&queryOpts.since, "since", 0, "only records newer than this")
	f.StringVar(&queryOpts.format, "format", "json", "json or csv")
	_ = queryCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, _ []string) error {
	write := export.WriteJSON
	switch queryOpts.format {
	case "json":
	case "csv":
		write = export.WriteCSV
	default:
		return fmt.Errorf("unknown format %q", queryOpts.format)
	}
	q := infratelemetry.Query{
		Source:      queryOpts.source,
		ReferenceID: queryOpts.referenceID,
		Kind:        queryOpts.kind,
	}
	if queryOpts.severity != "" {
		sev, err := telemetry.ParseSeverity(queryOpts.severity)
		if err != nil {
			return err
		}
		q.Severity = &sev
	}
	if queryOpts.since > 0 {
		q.Start = time.Now().Add(-queryOpts.since)
	}

	var (
		recs []telemetry.Record
		err  error
	)
	switch queryOpts.store {
	case "jsonl":
		recs, err = infratelemetry.QueryJSONL(queryOpts.path, q)
	case "sqlite":
		var s *infratelemetry.SQLiteSender
		s, err = infratelemetry.NewSQLiteSender(infratelemetry.SQLiteConfig{Path: queryOpts.path})
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		recs, err = s.Query(cmd.Context(), q)
	default:
		return fmt.Errorf("unknown store %q", queryOpts.store)
	}
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), recs)
}
