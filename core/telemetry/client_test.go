package telemetry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/logfwd/core/factory"
)

func TestAdapt_SubmitLog(t *testing.T) {
	rec := NewRecorder()
	c := Adapt(rec)
	require.NoError(t, c.SubmitLog("Foo.Bar", "hello", SeverityInfo))

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, KindLog, evs[0].Kind)
	assert.Equal(t, "Foo.Bar", evs[0].Source)
	assert.Equal(t, "hello", evs[0].Message)
	assert.Equal(t, SeverityInfo, evs[0].Severity)
	assert.False(t, evs[0].Time.IsZero())
}

func TestAdapt_ExceptionAndLinkedLog(t *testing.T) {
	rec := NewRecorder()
	c := Adapt(rec)
	boom := errors.New("boom")
	require.NoError(t, c.SubmitException(ExceptionRecord{Source: "S", Err: boom, Severity: SeverityError, ReferenceID: "ref-1"}))
	require.NoError(t, c.SubmitLogRecord(LogRecord{
		Source:     "S",
		Message:    "failed",
		Severity:   SeverityDebug,
		Properties: map[string]string{ReferenceIDProperty: "ref-1"},
	}))

	evs := rec.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, KindException, evs[0].Kind)
	assert.ErrorIs(t, evs[0].Err, boom)
	assert.Equal(t, "boom", evs[0].Message)
	assert.Equal(t, "ref-1", evs[0].ReferenceID)
	assert.Equal(t, KindLog, evs[1].Kind)
	assert.Equal(t, "ref-1", evs[1].ReferenceID)
	assert.Equal(t, "ref-1", evs[1].Properties[ReferenceIDProperty])
}

func TestAdapt_PropagatesSenderError(t *testing.T) {
	quota := errors.New("quota exceeded")
	c := Adapt(SenderFunc(func(Event) error { return quota }))
	assert.ErrorIs(t, c.SubmitLog("s", "m", SeverityWarn), quota)
	assert.ErrorIs(t, c.SubmitException(ExceptionRecord{Err: quota}), quota)
	assert.ErrorIs(t, c.SubmitLogRecord(LogRecord{}), quota)
}

func TestAdapt_NilSender(t *testing.T) {
	assert.NoError(t, Adapt(nil).SubmitLog("s", "m", SeverityInfo))
}

func TestEventRecord_JSON(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ev := Event{Kind: KindException, Source: "S", Message: "boom", Severity: SeverityError,
		Err: errors.New("boom"), ReferenceID: "r", Time: ts}
	data, err := json.Marshal(ev.Record())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"exception","source":"S","message":"boom","severity":"error",
		"error":"boom","reference_id":"r","time":"2024-01-02T03:04:05Z"}`, string(data))
}

func TestSeverity(t *testing.T) {
	for _, s := range []Severity{SeverityDebug, SeverityInfo, SeverityWarn, SeverityError} {
		back, err := ParseSeverity(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, back)
	}
	_, err := ParseSeverity("fatal")
	assert.Error(t, err)
}

type closingSender struct {
	Recorder
	closed bool
	err    error
}

func (c *closingSender) Close() error {
	c.closed = true
	return c.err
}

func TestMulti(t *testing.T) {
	a, b := &closingSender{}, &closingSender{err: errors.New("close b")}
	m := NewMulti(a, b, NopSender{})
	require.NoError(t, m.Send(Event{Message: "x"}))
	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)

	err := m.Close()
	assert.True(t, a.closed)
	assert.True(t, b.closed)
	assert.ErrorContains(t, err, "close b")
}

func TestMulti_FirstErrorStops(t *testing.T) {
	failing := NewRecorder()
	failing.Fail = func(Event) error { return errors.New("down") }
	after := NewRecorder()
	err := NewMulti(failing, after).Send(Event{})
	assert.EqualError(t, err, "down")
	assert.Empty(t, after.Events())
}

func TestNewSender(t *testing.T) {
	require.NoError(t, RegisterSender("test-recorder", func(map[string]any) (Sender, error) {
		return NewRecorder(), nil
	}))

	s, err := NewSender(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSender{}, s)

	s, err = NewSender([]factory.ModuleConfig{{Type: "test-recorder"}})
	require.NoError(t, err)
	assert.IsType(t, &Recorder{}, s)

	s, err = NewSender([]factory.ModuleConfig{{Type: "test-recorder"}, {Type: "test-recorder"}})
	require.NoError(t, err)
	require.IsType(t, &Multi{}, s)
	assert.Len(t, s.(*Multi).Senders, 2)

	_, err = NewSender([]factory.ModuleConfig{{Type: "test-recorder"}, {Type: "missing"}})
	assert.Error(t, err)
	assert.Contains(t, SenderTypes(), "test-recorder")
}
