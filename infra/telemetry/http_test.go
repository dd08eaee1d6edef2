package telemetry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

func TestHTTPSender_PostsRecord(t *testing.T) {
	var got coretelemetry.Record
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		header = r.Header.Get("X-Tenant")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s, err := NewHTTPSender(HTTPConfig{URL: srv.URL, Headers: map[string]string{"X-Tenant": "ops"}})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ev := coretelemetry.Event{
		Kind:     coretelemetry.KindLog,
		Source:   "svc",
		Message:  "hello",
		Severity: coretelemetry.SeverityWarn,
		Time:     time.Now(),
	}
	require.NoError(t, s.Send(ev))
	assert.Equal(t, "ops", header)
	assert.Equal(t, ev.Record().Message, got.Message)
	assert.Equal(t, ev.Record().Source, got.Source)
	assert.Equal(t, ev.Record().Severity, got.Severity)
}

func TestHTTPSender_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, err := NewHTTPSender(HTTPConfig{URL: srv.URL})
	require.NoError(t, err)
	err = s.Send(coretelemetry.Event{Message: "x", Time: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestHTTPSender_ClientCredentials(t *testing.T) {
	var tokenCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
	})
	var auth []string
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s, err := NewHTTPSender(HTTPConfig{
		URL:  srv.URL + "/events",
		Auth: &OAuth2Config{ClientID: "id", ClientSecret: "secret", TokenURL: srv.URL + "/token"},
	})
	require.NoError(t, err)

	ev := coretelemetry.Event{Message: "x", Time: time.Now()}
	require.NoError(t, s.Send(ev))
	require.NoError(t, s.Send(ev))
	assert.Equal(t, []string{"Bearer abc", "Bearer abc"}, auth)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestNewHTTPSender_Validation(t *testing.T) {
	_, err := NewHTTPSender(HTTPConfig{})
	assert.Error(t, err)
	_, err = NewHTTPSender(HTTPConfig{URL: "http://x", Auth: &OAuth2Config{ClientID: "id"}})
	assert.Error(t, err)
}
