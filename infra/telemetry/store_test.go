package telemetry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

func sampleEvents(now time.Time) []coretelemetry.Event {
	return []coretelemetry.Event{
		{Kind: coretelemetry.KindLog, Source: "svc/a", Message: "started", Severity: coretelemetry.SeverityInfo, Time: now},
		{Kind: coretelemetry.KindException, Source: "svc/a", Message: "boom", Err: errors.New("boom"), Severity: coretelemetry.SeverityError, ReferenceID: "ref-1", Time: now.Add(time.Second)},
		{Kind: coretelemetry.KindLog, Source: "svc/a", Message: "failed", Severity: coretelemetry.SeverityDebug, ReferenceID: "ref-1", Properties: map[string]string{coretelemetry.ReferenceIDProperty: "ref-1"}, Time: now.Add(2 * time.Second)},
		{Kind: coretelemetry.KindLog, Source: "svc/b", Message: "other", Severity: coretelemetry.SeverityWarn, Time: now.Add(3 * time.Second)},
	}
}

func TestJSONLSender_SendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.jsonl")
	s, err := NewJSONLSender(JSONLConfig{Path: path, MaxSizeMB: 1})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, ev := range sampleEvents(now) {
		require.NoError(t, s.Send(ev))
	}

	all, err := s.Query(Query{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "started", all[0].Message)
	assert.Equal(t, "other", all[3].Message)

	linked, err := s.Query(Query{ReferenceID: "ref-1"})
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, "exception", linked[0].Kind)
	assert.Equal(t, "boom", linked[0].Error)
	assert.Equal(t, "log", linked[1].Kind)
	assert.Equal(t, "ref-1", linked[1].Properties[coretelemetry.ReferenceIDProperty])

	sev := coretelemetry.SeverityWarn
	warn, err := QueryJSONL(path, Query{Severity: &sev})
	require.NoError(t, err)
	require.Len(t, warn, 1)
	assert.Equal(t, "svc/b", warn[0].Source)

	window, err := s.Query(Query{Start: now.Add(time.Second), End: now.Add(2 * time.Second)})
	require.NoError(t, err)
	assert.Len(t, window, 2)
}

func TestQueryJSONL_ReadsBackupsFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")
	backup := filepath.Join(dir, "events-2024-01-01T00-00-00.000.jsonl")
	require.NoError(t, os.WriteFile(backup, []byte(`{"kind":"log","message":"old","severity":"info","time":"2024-01-01T00:00:00Z"}`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("not json\n"+`{"kind":"log","message":"new","severity":"info","time":"2024-01-02T00:00:00Z"}`+"\n"), 0o644))

	out, err := QueryJSONL(path, Query{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "old", out[0].Message)
	assert.Equal(t, "new", out[1].Message)
}

func TestQueryJSONL_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")
	line := []byte(`{"kind":"log","message":"other","severity":"info","time":"2024-01-01T00:00:00Z"}` + "\n")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	for _, name := range []string{"events_audit.jsonl", "events-old.jsonl", "events-2024-01-01.jsonl", "eventsX.jsonl"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), line, 0o644))
	}

	out, err := QueryJSONL(path, Query{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNewJSONLSender_RequiresPath(t *testing.T) {
	_, err := NewJSONLSender(JSONLConfig{})
	assert.Error(t, err)
}

func TestSQLiteSender_SendQuery(t *testing.T) {
	s, err := NewSQLiteSender(SQLiteConfig{Path: filepath.Join(t.TempDir(), "events.db")})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, ev := range sampleEvents(now) {
		require.NoError(t, s.Send(ev))
	}
	ctx := context.Background()

	all, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "started", all[0].Message)

	linked, err := s.Query(ctx, Query{ReferenceID: "ref-1", Kind: "log"})
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "debug", linked[0].Severity)

	bySource, err := s.Query(ctx, Query{Source: "svc/b"})
	require.NoError(t, err)
	require.Len(t, bySource, 1)
	assert.Equal(t, "warn", bySource[0].Severity)

	sev := coretelemetry.SeverityError
	errs, err := s.Query(ctx, Query{Severity: &sev, Start: now, End: now.Add(time.Hour)})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0].Error)
}

func TestQuery_Match(t *testing.T) {
	rec := coretelemetry.Record{Kind: "log", Source: "a", Severity: "info", ReferenceID: "r", Time: time.Unix(100, 0)}
	sev := coretelemetry.SeverityInfo
	assert.True(t, Query{}.Match(rec))
	assert.True(t, Query{Source: "a", Severity: &sev, ReferenceID: "r", Kind: "log"}.Match(rec))
	assert.False(t, Query{Source: "b"}.Match(rec))
	assert.False(t, Query{Kind: "exception"}.Match(rec))
	assert.False(t, Query{Start: time.Unix(101, 0)}.Match(rec))
	assert.False(t, Query{End: time.Unix(99, 0)}.Match(rec))
}
