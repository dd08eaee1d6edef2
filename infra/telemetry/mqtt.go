package telemetry

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coretelemetry "github.com/kilianp07/logfwd/core/telemetry"
	"github.com/kilianp07/logfwd/infra/logger"
)

// MQTTConfig defines the connection and publish parameters of the MQTT sender.
type MQTTConfig struct {
	Broker         string        `json:"broker"`
	ClientID       string        `json:"client_id"`
	Username       string        `json:"username"`
	Password       string        `json:"password"`
	TopicPrefix    string        `json:"topic_prefix"`
	QoS            byte          `json:"qos"`
	Retain         bool          `json:"retain"`
	UseTLS         bool          `json:"use_tls"`
	ClientCert     string        `json:"client_cert"`
	ClientKey      string        `json:"client_key"`
	CABundle       string        `json:"ca_bundle"`
	AuthMethod     string        `json:"auth_method"`
	LWTTopic       string        `json:"lwt_topic"`
	LWTPayload     string        `json:"lwt_payload"`
	LWTQoS         byte          `json:"lwt_qos"`
	LWTRetain      bool          `json:"lwt_retain"`
	PublishTimeout time.Duration `json:"publish_timeout"`
	TLSConfig      *tls.Config   `json:"-"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTSender publishes every event as a JSON record.
type MQTTSender struct {
	cli     pahoClient
	prefix  string
	qos     byte
	retain  bool
	timeout time.Duration
	log     logger.Logger
}

// NewMQTTSender connects to the broker described by cfg.
func NewMQTTSender(cfg MQTTConfig) (*MQTTSender, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt: broker is required")
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_sender")
	s := &MQTTSender{
		prefix:  cfg.TopicPrefix,
		qos:     cfg.QoS,
		retain:  cfg.Retain,
		timeout: cfg.PublishTimeout,
		log:     log,
	}
	if s.prefix == "" {
		s.prefix = "logfwd"
	}
	if s.timeout <= 0 {
		s.timeout = 5 * time.Second
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	s.cli = c
	return s, nil
}

// NewClientOptions builds mqtt client options from cfg.
func NewClientOptions(cfg MQTTConfig) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c MQTTConfig) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("no certificates in %s", c.CABundle)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// Topic returns <prefix>/<kind>/<severity> for ev.
func Topic(prefix string, ev coretelemetry.Event) string {
	return fmt.Sprintf("%s/%s/%s", prefix, ev.Kind, ev.Severity)
}

// Send publishes the event and waits for the broker to accept it.
func (s *MQTTSender) Send(ev coretelemetry.Event) error {
	payload, err := json.Marshal(ev.Record())
	if err != nil {
		return err
	}
	topic := Topic(s.prefix, ev)
	token := s.cli.Publish(topic, s.qos, s.retain, payload)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("publish %s: timed out after %s", topic, s.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (s *MQTTSender) Close() error {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
	return nil
}
