package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
)

// OAuth2Config holds client-credentials settings for the HTTP sender.
type OAuth2Config struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`
}

func (c *OAuth2Config) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}
}

// HTTPConfig configures the webhook sender.
type HTTPConfig struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Timeout time.Duration     `json:"timeout"`
	Auth    *OAuth2Config     `json:"auth"`
}

// HTTPSender POSTs each event as a JSON record. When Auth is set, requests
// carry a bearer token obtained with the client-credentials grant; the token
// is cached and refreshed on expiry.
type HTTPSender struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// NewHTTPSender validates cfg and builds the underlying client.
func NewHTTPSender(cfg HTTPConfig) (*HTTPSender, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("http: url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	base := &http.Client{Timeout: cfg.Timeout}
	client := base
	if cfg.Auth != nil {
		if cfg.Auth.TokenURL == "" {
			return nil, fmt.Errorf("http: auth.token_url is required")
		}
		cc := cfg.Auth.toOauth2Config()
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		client = cc.Client(ctx)
		client.Timeout = cfg.Timeout
	}
	return &HTTPSender{url: cfg.URL, headers: cfg.Headers, client: client}, nil
}

// Send delivers one record. Any non-2xx status is an error.
func (s *HTTPSender) Send(ev coretelemetry.Event) error {
	b, err := json.Marshal(ev.Record())
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", s.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: unexpected status %s", s.url, resp.Status)
	}
	return nil
}

// Close releases idle connections.
func (s *HTTPSender) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
