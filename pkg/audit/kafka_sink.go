/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package audit

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
	"go.uber.org/zap"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/metrics"
)

// KafkaSinkConfig configures a KafkaSink.
type KafkaSinkConfig struct {
	// Name is the identifier for this sink instance.
	Name string

	// Brokers is the list of Kafka broker addresses.
	Brokers []string

	// Topic is the Kafka topic to write audit events to.
	Topic string

	// TLS configuration for secure connections.
	TLS *KafkaTLSConfig

	// SASL authentication configuration.
	SASL *KafkaSASLConfig

	// BatchSize is the number of messages to batch before flushing.
	// Default: 100
	BatchSize int

	// BatchTimeout is the maximum time to wait before flushing a batch.
	// Default: 1 second
	BatchTimeout time.Duration

	// WriteTimeout is the timeout for writing messages.
	// Default: 10 seconds
	WriteTimeout time.Duration

	// RequiredAcks determines the level of acknowledgment required.
	// -1: all replicas, 0: none, 1: leader only
	// Default: -1 (all replicas)
	RequiredAcks int
}

// KafkaTLSConfig holds TLS configuration for Kafka connections.
type KafkaTLSConfig struct {
	// Enabled turns on TLS for the Kafka connection.
	Enabled bool

	// CACert is the PEM-encoded CA certificate for verifying the server.
	CACert []byte

	// ClientCert is the PEM-encoded client certificate for mTLS.
	ClientCert []byte

	// ClientKey is the PEM-encoded client private key for mTLS.
	ClientKey []byte

	// InsecureSkipVerify skips server certificate verification.
	// WARNING: Only use for testing.
	InsecureSkipVerify bool
}

// KafkaSASLConfig holds SASL authentication configuration.
type KafkaSASLConfig struct {
	// Mechanism is the SASL mechanism to use.
	// Valid values: "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"
	Mechanism string

	// Username for SASL authentication.
	Username string

	// Password for SASL authentication.
	Password string
}

// KafkaSink writes audit events to a Kafka topic. Events are keyed by the
// pickup event ID so one dismissal's trail lands in one partition, in order.
type KafkaSink struct {
	name   string
	topic  string
	writer *kafka.Writer
	logger *zap.Logger

	mu        sync.Mutex
	lastError error
	lastErrAt time.Time
}

// NewKafkaSink creates a new KafkaSink.
func NewKafkaSink(cfg KafkaSinkConfig, logger *zap.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka sink requires at least one broker")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka sink requires a topic")
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	requiredAcks := kafka.RequiredAcks(cfg.RequiredAcks)
	if cfg.RequiredAcks == 0 {
		requiredAcks = kafka.RequireAll
	}

	transport := &kafka.Transport{
		Dial: (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsConfig, err := buildTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("building kafka TLS config: %w", err)
		}
		transport.TLS = tlsConfig
	}

	if cfg.SASL != nil {
		mechanism, err := buildSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("building kafka SASL mechanism: %w", err)
		}
		transport.SASL = mechanism
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    batchSize,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		RequiredAcks: requiredAcks,
		Compression:  kafka.Snappy,
		Transport:    transport,
	}

	name := cfg.Name
	if name == "" {
		name = "kafka"
	}

	sink := &KafkaSink{
		name:   name,
		topic:  cfg.Topic,
		writer: writer,
		logger: logger.Named("kafka-sink"),
	}

	sink.logger.Info("Kafka audit sink created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.Int("batch_size", batchSize),
		zap.Bool("tls", cfg.TLS != nil && cfg.TLS.Enabled),
		zap.Bool("sasl", cfg.SASL != nil))

	return sink, nil
}

func buildTLSConfig(cfg *KafkaTLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // explicit opt-in for test setups
	}

	if len(cfg.CACert) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(cfg.CACert) {
			return nil, errors.New("failed to parse CA certificate")
		}
		tlsConfig.RootCAs = pool
	}

	if len(cfg.ClientCert) > 0 && len(cfg.ClientKey) > 0 {
		cert, err := tls.X509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load client key pair: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func buildSASLMechanism(cfg *KafkaSASLConfig) (sasl.Mechanism, error) {
	switch strings.ToUpper(cfg.Mechanism) {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism %q", cfg.Mechanism)
	}
}

// Write sends the audit event to Kafka.
func (s *KafkaSink) Write(ctx context.Context, event *Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		metrics.AuditSinkErrors.WithLabelValues(s.name).Inc()
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Target.EventID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "severity", Value: []byte(event.Severity)},
		},
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.mu.Lock()
		s.lastError = err
		s.lastErrAt = time.Now()
		s.mu.Unlock()
		metrics.AuditSinkErrors.WithLabelValues(s.name).Inc()
		s.logger.Warn("kafka write failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("error", err.Error()))
		return fmt.Errorf("writing audit event to kafka topic %s: %w", s.topic, err)
	}

	return nil
}

// LastError returns the time and error of the most recent failed write.
func (s *KafkaSink) LastError() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErrAt, s.lastError
}

// Stats exposes the underlying writer statistics.
func (s *KafkaSink) Stats() kafka.WriterStats {
	return s.writer.Stats()
}

// Close flushes and closes the Kafka writer.
func (s *KafkaSink) Close() error {
	s.logger.Info("closing kafka audit sink", zap.String("topic", s.topic))
	return s.writer.Close()
}

// Name returns the sink identifier.
func (s *KafkaSink) Name() string {
	return s.name
}
